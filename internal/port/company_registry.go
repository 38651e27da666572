package port

import "context"

// CompanyRegistry resolves a full company id (14-digit CNPJ) to a display
// name. Callers treat it as best-effort.
type CompanyRegistry interface {
	LookupName(ctx context.Context, cnpj string) (string, error)
}
