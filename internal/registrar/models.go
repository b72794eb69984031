package registrar

// Availability represents the registrar's verdict for a single domain.
type Availability struct {
	Domain     string  `json:"domain"`
	Available  bool    `json:"available"`
	Definitive bool    `json:"definitive"`
	Premium    bool    `json:"premium"`
	Price      float64 `json:"price,omitempty"`
	Currency   string  `json:"currency,omitempty"`
}

// availableRequest is the body of a bulk availability check.
type availableRequest struct {
	Domains []string `json:"domains"`
}

// availableResponse is the registrar's bulk availability payload.
type availableResponse struct {
	Domains []domainResult `json:"domains"`
}

// domainResult is a single per-domain result within a bulk response.
type domainResult struct {
	Domain     string  `json:"domain"`
	Available  bool    `json:"available"`
	Definitive bool    `json:"definitive"`
	Premium    bool    `json:"premium"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
}

// ErrorResponse is the registrar's error payload.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fields  []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"fields,omitempty"`
}
