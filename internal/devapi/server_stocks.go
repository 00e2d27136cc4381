package devapi

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quotedesk/quotedesk/internal/domain"
)

func registerStockHandlers(api huma.API, store *Store) {
	type stockOutput struct {
		Body domain.Stock
	}

	type stockListOutput struct {
		Body []domain.Stock
	}

	type stockPageOutput struct {
		Body domain.PagedResult[domain.Stock]
	}

	type stockIDInput struct {
		ID string `path:"id"`
	}

	huma.Register(api, huma.Operation{OperationID: "list-stocks", Method: http.MethodGet, Path: "/api/Stocks", Summary: "List all stocks", Tags: []string{"Stocks"}},
		func(ctx context.Context, input *struct{}) (*stockListOutput, error) {
			return &stockListOutput{Body: store.Stocks()}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-stock", Method: http.MethodGet, Path: "/api/Stocks/{id}", Summary: "Get a stock by id", Tags: []string{"Stocks"}},
		func(ctx context.Context, input *stockIDInput) (*stockOutput, error) {
			stock, err := store.Stock(input.ID)
			if err != nil {
				return nil, mapErr(err)
			}
			return &stockOutput{Body: stock}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "filter-stocks", Method: http.MethodPost, Path: "/api/Stocks/ByFilter", Summary: "Run a filtered, paged stock query", Tags: []string{"Stocks"}},
		func(ctx context.Context, input *struct {
			Body domain.StocksFilter
		}) (*stockPageOutput, error) {
			return &stockPageOutput{Body: store.FilterStocks(input.Body)}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "create-stock", Method: http.MethodPost, Path: "/api/Stocks", Summary: "Create a stock", Tags: []string{"Stocks"}},
		func(ctx context.Context, input *struct {
			Body domain.Stock
		}) (*stockOutput, error) {
			stock, err := store.CreateStock(input.Body)
			if err != nil {
				return nil, mapErr(err)
			}
			return &stockOutput{Body: stock}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "update-stock", Method: http.MethodPut, Path: "/api/Stocks", Summary: "Update a stock", Tags: []string{"Stocks"}},
		func(ctx context.Context, input *struct {
			Body domain.Stock
		}) (*stockOutput, error) {
			stock, err := store.UpdateStock(input.Body)
			if err != nil {
				return nil, mapErr(err)
			}
			return &stockOutput{Body: stock}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "delete-stock", Method: http.MethodDelete, Path: "/api/Stocks/{id}", Summary: "Delete a stock", Tags: []string{"Stocks"}},
		func(ctx context.Context, input *stockIDInput) (*struct{}, error) {
			if err := store.DeleteStock(input.ID); err != nil {
				return nil, mapErr(err)
			}
			return nil, nil
		})

	type performanceOutput struct {
		Body domain.StockPerformance
	}

	type performanceListOutput struct {
		Body []domain.StockPerformance
	}

	huma.Register(api, huma.Operation{OperationID: "all-performance", Method: http.MethodGet, Path: "/api/StocksPerformance", Summary: "Performance rows for every stock", Tags: []string{"Stocks"}},
		func(ctx context.Context, input *struct{}) (*performanceListOutput, error) {
			return &performanceListOutput{Body: store.AllPerformance()}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "get-performance", Method: http.MethodGet, Path: "/api/StocksPerformance/{id}", Summary: "Performance row for one stock", Tags: []string{"Stocks"}},
		func(ctx context.Context, input *stockIDInput) (*performanceOutput, error) {
			perf, err := store.Performance(input.ID)
			if err != nil {
				return nil, mapErr(err)
			}
			return &performanceOutput{Body: perf}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "company-performance", Method: http.MethodGet, Path: "/api/StocksPerformance/Company/{id}", Summary: "Performance rows for one company's stocks", Tags: []string{"Stocks"}},
		func(ctx context.Context, input *stockIDInput) (*performanceListOutput, error) {
			perfs, err := store.PerformanceByCompany(input.ID)
			if err != nil {
				return nil, mapErr(err)
			}
			return &performanceListOutput{Body: perfs}, nil
		})
}
