// Package mocks provides shared mock implementations for testing.
//
// Mocks are plain structs with a function field per interface method and
// default return values used when the function is not set:
//
//	jwtSvc := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{UserID: id, Roles: []auth.Role{auth.RoleAdmin}}, nil
//	    },
//	}
//
// When adding a mock, name the file after the interface being mocked.
package mocks
