package domain

type CtxKey string

const (
	KeyUserID     CtxKey = "UserID"
	KeyUserEmail  CtxKey = "Email"
	KeyUserRole   CtxKey = "Role"
	KeySessionKey CtxKey = "SessionKey"
	KeyAuthState  CtxKey = "AuthState"
)
