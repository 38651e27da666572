package handler

// Request and response types used by swag to generate OpenAPI documentation.
// The request types are also the bind targets of the filing handlers.

// --- Request Types ---

// ParseRequest represents the stateless parse request body.
type ParseRequest struct {
	Text       string `json:"texto" binding:"required" example:"CONSULTA VALORES CI GFIP\nNIT: 123.45678.90-1 ..."`
	Profession string `json:"profissao" example:"pedreiro"`
	Region     string `json:"estado" example:"SP"`
}

// ParseBatchRequest represents the batch parse request body.
type ParseBatchRequest struct {
	Texts []string `json:"textos" binding:"required"`
}

// ReconcileRequest represents the parse-and-store request body.
type ReconcileRequest struct {
	Text       string `json:"texto" binding:"required" example:"CONSULTA VALORES CI GFIP\nNIT: 123.45678.90-1 ..."`
	Profession string `json:"profissao" example:"pedreiro"`
	Region     string `json:"estado" example:"SP"`
	SourceName string `json:"nome_arquivo" example:"ci_gfip_2024.txt"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
