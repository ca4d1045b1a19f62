// Package auth implements admin login: credential lookup, bcrypt password
// verification and issuing/validating the HS256 tokens that protect the
// product management routes.
//
//	tokens := auth.NewTokenService([]byte(secret), time.Hour, "catalogadmin")
//	svc := auth.NewService(auth.NewGormAdminRepository(db), tokens, bus)
//	token, err := svc.Login(ctx, email, password)
package auth
