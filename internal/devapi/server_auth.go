package devapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quotedesk/quotedesk/internal/domain"
)

func registerAuthHandlers(api huma.API, store *Store) {
	type loginOutput struct {
		Body domain.LoginResult
	}

	huma.Register(api, huma.Operation{OperationID: "login", Method: http.MethodPost, Path: "/api/Auth/Login", Summary: "Exchange credentials for a bearer token", Tags: []string{"Auth"}},
		func(ctx context.Context, input *struct {
			Body domain.LoginCredentials
		}) (*loginOutput, error) {
			return &loginOutput{Body: store.Login(input.Body)}, nil
		})

	type registerOutput struct {
		Body domain.RegisterResult
	}

	huma.Register(api, huma.Operation{OperationID: "register", Method: http.MethodPost, Path: "/api/Auth/Register", Summary: "Create a user account", Tags: []string{"Auth"}},
		func(ctx context.Context, input *struct {
			Body domain.RegisterRequest
		}) (*registerOutput, error) {
			return &registerOutput{Body: store.Register(input.Body)}, nil
		})

	type validateOutput struct {
		Body domain.TokenValidation
	}

	huma.Register(api, huma.Operation{OperationID: "validate-token", Method: http.MethodGet, Path: "/api/Auth/Token/Validate", Summary: "Validate the presented bearer token", Tags: []string{"Auth"}},
		func(ctx context.Context, input *struct {
			Authorization string `header:"Authorization"`
		}) (*validateOutput, error) {
			token, _ := strings.CutPrefix(input.Authorization, "Bearer ")
			return &validateOutput{Body: store.ValidateToken(token)}, nil
		})
}
