package devapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quotedesk/quotedesk/internal/domain"
)

func registerUserHandlers(api huma.API, store *Store) {
	type userOutput struct {
		Body domain.UserProfile
	}

	type userPageOutput struct {
		Body domain.PagedResult[domain.UserProfile]
	}

	type userIDInput struct {
		ID string `path:"id"`
	}

	huma.Register(api, huma.Operation{OperationID: "get-user", Method: http.MethodGet, Path: "/api/Users/{id}", Summary: "Get a user by id", Tags: []string{"Users"}},
		func(ctx context.Context, input *userIDInput) (*userOutput, error) {
			user, err := store.User(input.ID)
			if err != nil {
				return nil, mapErr(err)
			}
			return &userOutput{Body: user}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "filter-users", Method: http.MethodPost, Path: "/api/Users/ByFilter", Summary: "Run a filtered, paged user query", Tags: []string{"Users"}},
		func(ctx context.Context, input *struct {
			Body domain.UsersFilter
		}) (*userPageOutput, error) {
			return &userPageOutput{Body: store.FilterUsers(input.Body)}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "create-user", Method: http.MethodPost, Path: "/api/Users", Summary: "Create a user", Tags: []string{"Users"}},
		func(ctx context.Context, input *struct {
			Body domain.UserProfile
		}) (*userOutput, error) {
			user, err := store.CreateUser(input.Body)
			if err != nil {
				return nil, mapErr(err)
			}
			return &userOutput{Body: user}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "update-user", Method: http.MethodPut, Path: "/api/Users", Summary: "Update a user", Tags: []string{"Users"}},
		func(ctx context.Context, input *struct {
			Body domain.UserProfile
		}) (*userOutput, error) {
			user, err := store.UpdateUser(input.Body)
			if err != nil {
				return nil, mapErr(err)
			}
			return &userOutput{Body: user}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "delete-user", Method: http.MethodDelete, Path: "/api/Users/{id}", Summary: "Delete a user", Tags: []string{"Users"}},
		func(ctx context.Context, input *userIDInput) (*struct{}, error) {
			if err := store.DeleteUser(input.ID); err != nil {
				return nil, mapErr(err)
			}
			return nil, nil
		})
}
