package referral

import (
	"encoding/json"
	"math"
	"os"
	"sort"

	"github.com/rs/zerolog"
)

// earthRadiusMiles for the haversine distance between patient and center.
const earthRadiusMiles = 3959

// Center is one entry of the transplant center directory, reference data
// loaded from a JSON file.
type Center struct {
	CenterID string `json:"center_id"`
	Name     string `json:"name"`
	Location struct {
		City  string  `json:"city"`
		State string  `json:"state"`
		Lat   float64 `json:"lat"`
		Lng   float64 `json:"lng"`
	} `json:"location"`
	AcceptsReferralsFrom []string `json:"accepts_referrals_from"`
	ReferralRequirements struct {
		Required            bool     `json:"required"`
		SelfReferralAllowed bool     `json:"self_referral_allowed"`
		WhoCanRefer         []string `json:"who_can_refer"`
	} `json:"referral_requirements"`
	Contact struct {
		Phone   string `json:"phone,omitempty"`
		Fax     string `json:"fax,omitempty"`
		Website string `json:"website,omitempty"`
	} `json:"contact"`
	InsuranceNotes struct {
		Medicare       bool     `json:"medicare"`
		MedicaidStates []string `json:"medicaid_states"`
	} `json:"insurance_notes"`
}

// NearbyCenter is a directory entry projected for a specific patient query.
type NearbyCenter struct {
	CenterID            string   `json:"center_id"`
	Name                string   `json:"name"`
	Location            any      `json:"location"`
	DistanceMiles       *float64 `json:"distance_miles"`
	ReferralRequired    bool     `json:"referral_required"`
	SelfReferralAllowed bool     `json:"self_referral_allowed"`
	WhoCanRefer         []string `json:"who_can_refer"`
	Contact             any      `json:"contact"`
	InsuranceCompatible bool     `json:"insurance_compatible"`
}

// NearbyQuery filters the center directory. State is mandatory; coordinates
// enable distance sorting; insurance narrows compatibility.
type NearbyQuery struct {
	State     string
	Lat       *float64
	Lng       *float64
	Insurance string
}

// Directory loads the transplant center directory from a JSON file. Like the
// question catalog, a missing or corrupt file yields an empty directory.
type Directory struct {
	path string
	log  zerolog.Logger
}

func NewDirectory(path string, log zerolog.Logger) *Directory {
	return &Directory{path: path, log: log}
}

func (d *Directory) Load() []Center {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		d.log.Warn().Err(err).Str("path", d.path).Msg("center directory unavailable, using empty directory")
		return nil
	}
	var centers []Center
	if err := json.Unmarshal(raw, &centers); err != nil {
		d.log.Warn().Err(err).Str("path", d.path).Msg("center directory malformed, using empty directory")
		return nil
	}
	return centers
}

// haversineMiles computes the great-circle distance between two coordinates.
func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(dLng/2), 2)
	return earthRadiusMiles * 2 * math.Asin(math.Sqrt(a))
}

// FindNearby filters centers that accept referrals from the patient's state,
// annotates them with distance and insurance compatibility, and sorts by
// distance (centers without a computable distance last).
func FindNearby(centers []Center, q NearbyQuery) []NearbyCenter {
	results := []NearbyCenter{}
	for _, center := range centers {
		accepted := false
		for _, st := range center.AcceptsReferralsFrom {
			if st == q.State {
				accepted = true
				break
			}
		}
		if !accepted {
			continue
		}

		var distance *float64
		if q.Lat != nil && q.Lng != nil {
			d := math.Round(haversineMiles(*q.Lat, *q.Lng, center.Location.Lat, center.Location.Lng)*10) / 10
			distance = &d
		}

		compatible := true
		switch q.Insurance {
		case "medicare":
			compatible = center.InsuranceNotes.Medicare
		case "medicaid":
			compatible = false
			for _, st := range center.InsuranceNotes.MedicaidStates {
				if st == q.State {
					compatible = true
					break
				}
			}
		}

		results = append(results, NearbyCenter{
			CenterID:            center.CenterID,
			Name:                center.Name,
			Location:            center.Location,
			DistanceMiles:       distance,
			ReferralRequired:    center.ReferralRequirements.Required,
			SelfReferralAllowed: center.ReferralRequirements.SelfReferralAllowed,
			WhoCanRefer:         center.ReferralRequirements.WhoCanRefer,
			Contact:             center.Contact,
			InsuranceCompatible: compatible,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		di, dj := results[i].DistanceMiles, results[j].DistanceMiles
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})
	return results
}
