package lookup

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/harrylevesque/gatecheck/internal/models"
)

var (
	holderNames = []interface{}{"Jane Doe", "JOHN roe", "janet", "Ana Lima", "", "Émile Zola"}
	statuses    = []interface{}{"completed", "processing", "on-hold", "Completed", ""}
	checkIns    = []interface{}{models.CheckedIn, models.NotCheckedIn, models.CheckIn("")}
	searchTerms = []interface{}{"", "jane", "JAN", "doe", "o", "zz", "émile"}
)

func genAttendee() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(1, 500),
		gen.OneConstOf(holderNames...),
		gen.OneConstOf(statuses...),
		gen.OneConstOf(checkIns...),
	).Map(func(vals []interface{}) models.Attendee {
		return models.Attendee{
			AttendeeID:  vals[0].(int),
			HolderName:  vals[1].(string),
			OrderStatus: vals[2].(string),
			CheckIn:     vals[3].(models.CheckIn),
		}
	})
}

func genAttendees() gopter.Gen {
	return gen.SliceOf(genAttendee())
}

func sameAttendees(a, b []models.Attendee) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProperty_SearchIsOrderedSubset(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("search returns exactly the case-insensitive holder_name matches in order", prop.ForAll(
		func(list []models.Attendee, term string) bool {
			var want []models.Attendee
			for _, a := range list {
				if strings.Contains(strings.ToLower(a.HolderName), strings.ToLower(term)) {
					want = append(want, a)
				}
			}
			return sameAttendees(FilterAttendees(list, Filter{Search: term}), want)
		},
		genAttendees(),
		gen.OneConstOf(searchTerms...),
	))

	properties.TestingRun(t)
}

func TestProperty_CheckedInFilter(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("check-in filter \"1\" keeps exactly checked-in attendees", prop.ForAll(
		func(list []models.Attendee) bool {
			got := FilterAttendees(list, Filter{CheckIn: StringPtr("1")})
			n := 0
			for _, a := range list {
				if a.CheckIn == models.CheckedIn {
					n++
				}
			}
			if len(got) != n {
				return false
			}
			for _, a := range got {
				if a.CheckIn != models.CheckedIn {
					return false
				}
			}
			return true
		},
		genAttendees(),
	))

	properties.Property("\"0\" and \"1\" partition the list", prop.ForAll(
		func(list []models.Attendee) bool {
			in := FilterAttendees(list, Filter{CheckIn: StringPtr("1")})
			out := FilterAttendees(list, Filter{CheckIn: StringPtr("0")})
			return len(in)+len(out) == len(list)
		},
		genAttendees(),
	))

	properties.TestingRun(t)
}

func TestProperty_FilterIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("filtering twice equals filtering once", prop.ForAll(
		func(list []models.Attendee, term string, status string, checkIn string) bool {
			f := Filter{Search: term}
			if status != "" {
				f.OrderStatus = StringPtr(status)
			}
			if checkIn != "" {
				f.CheckIn = StringPtr(checkIn)
			}
			once := FilterAttendees(list, f)
			return sameAttendees(FilterAttendees(once, f), once)
		},
		genAttendees(),
		gen.OneConstOf(searchTerms...),
		gen.OneConstOf("", "completed", "processing"),
		gen.OneConstOf("", "0", "1"),
	))

	properties.TestingRun(t)
}

func TestProperty_NonNumericPayloadNotFound(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("non-numeric payloads never resolve", prop.ForAll(
		func(list []models.Attendee, payload string) bool {
			_, err := ResolveScannedAttendee(list, "x"+payload)
			return IsNotFound(err)
		},
		genAttendees(),
		gen.AlphaString(),
	))

	properties.Property("a present id resolves to the first attendee with it", prop.ForAll(
		func(list []models.Attendee, idx int) bool {
			if len(list) == 0 {
				return true
			}
			target := list[idx%len(list)]
			got, err := ResolveScannedAttendee(list, strconv.Itoa(target.AttendeeID))
			if err != nil {
				return false
			}
			for _, a := range list {
				if a.AttendeeID == target.AttendeeID {
					return got == a
				}
			}
			return false
		},
		genAttendees(),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
