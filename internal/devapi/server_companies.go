package devapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quotedesk/quotedesk/internal/domain"
)

func registerCompanyHandlers(api huma.API, store *Store) {
	type companyOutput struct {
		Body domain.Company
	}

	type companyListOutput struct {
		Body []domain.Company
	}

	type companyPageOutput struct {
		Body domain.PagedResult[domain.Company]
	}

	type companyIDInput struct {
		ID string `path:"id"`
	}

	huma.Register(api, huma.Operation{OperationID: "list-companies", Method: http.MethodGet, Path: "/api/Companies", Summary: "List all companies", Tags: []string{"Companies"}},
		func(ctx context.Context, input *struct{}) (*companyListOutput, error) {
			return &companyListOutput{Body: store.Companies()}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-company", Method: http.MethodGet, Path: "/api/Companies/{id}", Summary: "Get a company by id", Tags: []string{"Companies"}},
		func(ctx context.Context, input *companyIDInput) (*companyOutput, error) {
			company, err := store.Company(input.ID)
			if err != nil {
				return nil, mapErr(err)
			}
			return &companyOutput{Body: company}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "filter-companies", Method: http.MethodPost, Path: "/api/Companies/ByFilter", Summary: "Run a filtered, paged company query", Tags: []string{"Companies"}},
		func(ctx context.Context, input *struct {
			Body domain.CompaniesFilter
		}) (*companyPageOutput, error) {
			return &companyPageOutput{Body: store.FilterCompanies(input.Body)}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "create-company", Method: http.MethodPost, Path: "/api/Companies", Summary: "Create a company", Tags: []string{"Companies"}},
		func(ctx context.Context, input *struct {
			Body domain.Company
		}) (*companyOutput, error) {
			company, err := store.CreateCompany(input.Body)
			if err != nil {
				return nil, mapErr(err)
			}
			return &companyOutput{Body: company}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "update-company", Method: http.MethodPut, Path: "/api/Companies", Summary: "Update a company", Tags: []string{"Companies"}},
		func(ctx context.Context, input *struct {
			Body domain.Company
		}) (*companyOutput, error) {
			company, err := store.UpdateCompany(input.Body)
			if err != nil {
				return nil, mapErr(err)
			}
			return &companyOutput{Body: company}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "delete-company", Method: http.MethodDelete, Path: "/api/Companies/{id}", Summary: "Delete a company", Tags: []string{"Companies"}},
		func(ctx context.Context, input *companyIDInput) (*struct{}, error) {
			if err := store.DeleteCompany(input.ID); err != nil {
				return nil, mapErr(err)
			}
			return nil, nil
		})

	type companyUsersOutput struct {
		Body []domain.UserProfile
	}

	huma.Register(api, huma.Operation{OperationID: "list-company-users", Method: http.MethodGet, Path: "/api/Companies/{id}/users", Summary: "List the users assigned to a company", Tags: []string{"Companies"}},
		func(ctx context.Context, input *companyIDInput) (*companyUsersOutput, error) {
			users, err := store.UsersInCompany(input.ID)
			if err != nil {
				return nil, mapErr(err)
			}
			return &companyUsersOutput{Body: users}, nil
		})

	type assignmentInput struct {
		CompanyID string `path:"company_id"`
		UserID    string `path:"user_id"`
	}

	huma.Register(api, huma.Operation{OperationID: "assign-company-user", Method: http.MethodPost, Path: "/api/Companies/{company_id}/users/{user_id}", Summary: "Assign a user to a company", Tags: []string{"Companies"}},
		func(ctx context.Context, input *assignmentInput) (*struct{}, error) {
			if err := store.AssignUser(input.CompanyID, input.UserID); err != nil {
				return nil, mapErr(err)
			}
			return nil, nil
		})

	huma.Register(api, huma.Operation{OperationID: "unassign-company-user", Method: http.MethodDelete, Path: "/api/Companies/{company_id}/users/{user_id}", Summary: "Remove a user from a company", Tags: []string{"Companies"}},
		func(ctx context.Context, input *assignmentInput) (*struct{}, error) {
			if err := store.UnassignUser(input.CompanyID, input.UserID); err != nil {
				return nil, mapErr(err)
			}
			return nil, nil
		})
}
