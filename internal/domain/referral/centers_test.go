package referral

import (
	"math"
	"testing"
)

func testCenters() []Center {
	var columbus, cleveland Center

	columbus.CenterID = "oh-columbus"
	columbus.Name = "Columbus Transplant Center"
	columbus.Location.State = "OH"
	columbus.Location.Lat = 39.96
	columbus.Location.Lng = -83.0
	columbus.AcceptsReferralsFrom = []string{"OH", "KY", "WV"}
	columbus.InsuranceNotes.Medicare = true
	columbus.InsuranceNotes.MedicaidStates = []string{"OH"}

	cleveland.CenterID = "oh-cleveland"
	cleveland.Name = "Cleveland Transplant Center"
	cleveland.Location.State = "OH"
	cleveland.Location.Lat = 41.5
	cleveland.Location.Lng = -81.7
	cleveland.AcceptsReferralsFrom = []string{"OH", "PA"}
	cleveland.InsuranceNotes.Medicare = false
	cleveland.InsuranceNotes.MedicaidStates = []string{"OH", "PA"}

	return []Center{cleveland, columbus}
}

func TestFindNearby_StateFilter(t *testing.T) {
	results := FindNearby(testCenters(), NearbyQuery{State: "KY"})
	if len(results) != 1 || results[0].CenterID != "oh-columbus" {
		t.Fatalf("expected only columbus for KY, got %+v", results)
	}
	if results[0].DistanceMiles != nil {
		t.Error("no coordinates given, distance must be nil")
	}
}

func TestFindNearby_SortsByDistance(t *testing.T) {
	lat, lng := 39.96, -83.0 // Columbus
	results := FindNearby(testCenters(), NearbyQuery{State: "OH", Lat: &lat, Lng: &lng})
	if len(results) != 2 {
		t.Fatalf("expected 2 centers, got %d", len(results))
	}
	if results[0].CenterID != "oh-columbus" {
		t.Errorf("expected columbus nearest, got %s", results[0].CenterID)
	}
	if *results[0].DistanceMiles >= *results[1].DistanceMiles {
		t.Errorf("distances not ascending: %v then %v", *results[0].DistanceMiles, *results[1].DistanceMiles)
	}
}

func TestFindNearby_InsuranceFilters(t *testing.T) {
	results := FindNearby(testCenters(), NearbyQuery{State: "OH", Insurance: "medicare"})
	for _, r := range results {
		switch r.CenterID {
		case "oh-columbus":
			if !r.InsuranceCompatible {
				t.Error("columbus takes medicare")
			}
		case "oh-cleveland":
			if r.InsuranceCompatible {
				t.Error("cleveland does not take medicare")
			}
		}
	}

	results = FindNearby(testCenters(), NearbyQuery{State: "PA", Insurance: "medicaid"})
	if len(results) != 1 || !results[0].InsuranceCompatible {
		t.Fatalf("cleveland covers PA medicaid, got %+v", results)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Columbus to Cleveland is roughly 125 miles as the crow flies.
	d := haversineMiles(39.96, -83.0, 41.5, -81.7)
	if math.Abs(d-125) > 15 {
		t.Fatalf("expected ~125 miles, got %.1f", d)
	}
}
