package auth

// Claims es la información extraída del token.
// TenantID identifica la cuenta del criadero dentro del sistema multi-tenant.
type Claims struct {
	UserID   string
	Email    string
	TenantID string
}
