package referral

// PathwayKind names the referral route a patient should pursue.
type PathwayKind string

const (
	PathwayNephrologist   PathwayKind = "nephrologist_referral"
	PathwayDialysisCenter PathwayKind = "dialysis_center_referral"
	PathwayNoProvider     PathwayKind = "no_provider"
)

// CareOption is one way a patient without an established provider can get
// into the referral process.
type CareOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// Guidance is patient-facing instruction for a referral pathway.
type Guidance struct {
	Title      string       `json:"title"`
	Steps      []string     `json:"steps,omitempty"`
	Script     string       `json:"script,omitempty"`
	WhatToSend []string     `json:"what_to_send,omitempty"`
	Paths      []CareOption `json:"paths,omitempty"`
}

type PathwayResponse struct {
	Pathway  PathwayKind `json:"pathway"`
	Guidance Guidance    `json:"guidance"`
}

func nephrologistPathway() *PathwayResponse {
	return &PathwayResponse{
		Pathway: PathwayNephrologist,
		Guidance: Guidance{
			Title: "You have a nephrologist who can refer you",
			Steps: []string{
				"Contact your nephrologist's office",
				"Request a referral to your preferred transplant center",
				"Ask them to send your recent medical records",
			},
			Script: "I'm pursuing a kidney transplant evaluation at [Center Name]. Could you please send a referral and my recent records?",
			WhatToSend: []string{
				"Referral form (from transplant center)",
				"Last nephrology note",
				"Recent lab work",
				"Dialysis summary (if applicable)",
			},
		},
	}
}

func dialysisCenterPathway() *PathwayResponse {
	return &PathwayResponse{
		Pathway: PathwayDialysisCenter,
		Guidance: Guidance{
			Title: "Your dialysis center can help with referral",
			Steps: []string{
				"Speak with your dialysis center social worker or care coordinator",
				"Request assistance with transplant center referral",
				"They can initiate the referral process",
			},
			Script: "I'd like to pursue a kidney transplant evaluation. Can you help me get a referral to [Center Name]?",
			WhatToSend: []string{
				"Dialysis treatment records",
				"Recent lab work",
				"Medical history summary",
			},
		},
	}
}

func noProviderPathway() *PathwayResponse {
	return &PathwayResponse{
		Pathway: PathwayNoProvider,
		Guidance: Guidance{
			Title: "You'll need to establish care first",
			Paths: []CareOption{
				{
					Name:        "Find a nephrologist",
					Description: "A nephrologist can evaluate your kidney function and refer you to a transplant center",
					Action:      "Find nearby nephrologists or kidney care clinics",
				},
				{
					Name:        "Contact transplant center directly",
					Description: "Some centers can guide you on next steps, though they may still require a referral",
					Action:      "Call the transplant center's referral line",
				},
				{
					Name:        "Find a community health center",
					Description: "Federally Qualified Health Centers can help establish care and provide referrals",
					Action:      "Search for community health centers in your area",
				},
			},
		},
	}
}
