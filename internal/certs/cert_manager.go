package certs

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CertManager loads extra CA certificates for backends served with a
// private or self-signed certificate.
type CertManager struct {
	certDir string
	now     func() time.Time
}

// NewCertManager creates a new CertManager for the given directory.
func NewCertManager(certDir string) *CertManager {
	return &CertManager{certDir: certDir, now: time.Now}
}

// LoadCertificates loads all *.crt and *.pem certificates from the cert directory.
func (cm *CertManager) LoadCertificates() ([]*x509.Certificate, error) {
	var certs []*x509.Certificate

	err := filepath.WalkDir(cm.certDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".crt") || strings.HasSuffix(d.Name(), ".pem") {
			loaded, err := cm.loadCertificates(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			certs = append(certs, loaded...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return certs, nil
}

// CertPool returns the system pool extended with every non-expired
// certificate in the cert directory.
func (cm *CertManager) CertPool() (*x509.CertPool, error) {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	certs, err := cm.LoadCertificates()
	if err != nil {
		return nil, err
	}
	for _, cert := range certs {
		if cm.IsExpired(cert) {
			continue
		}
		pool.AddCert(cert)
	}
	return pool, nil
}

// loadCertificates decodes every CERTIFICATE block in a PEM file; bundles
// commonly carry an intermediate next to the root.
func (cm *CertManager) loadCertificates(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, errors.New("failed to parse certificate PEM")
	}
	return certs, nil
}

// IsExpired checks if a certificate is expired.
func (cm *CertManager) IsExpired(cert *x509.Certificate) bool {
	return cert.NotAfter.Before(cm.now())
}
