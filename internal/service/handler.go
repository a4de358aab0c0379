package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/assistant"
)

// ServiceName is the fully-qualified name of the budget service.
const ServiceName = "budgetwise.v1.BudgetService"

// Procedure paths served by NewBudgetServiceHandler.
const (
	ListCategoriesProcedure        = "/budgetwise.v1.BudgetService/ListCategories"
	ListBudgetsProcedure           = "/budgetwise.v1.BudgetService/ListBudgets"
	CreateBudgetProcedure          = "/budgetwise.v1.BudgetService/CreateBudget"
	UpdateBudgetProcedure          = "/budgetwise.v1.BudgetService/UpdateBudget"
	DeleteBudgetProcedure          = "/budgetwise.v1.BudgetService/DeleteBudget"
	CreateEntryProcedure           = "/budgetwise.v1.BudgetService/CreateEntry"
	UpdateEntryProcedure           = "/budgetwise.v1.BudgetService/UpdateEntry"
	DeleteEntryProcedure           = "/budgetwise.v1.BudgetService/DeleteEntry"
	ListEntriesProcedure           = "/budgetwise.v1.BudgetService/ListEntries"
	GetOverviewProcedure           = "/budgetwise.v1.BudgetService/GetOverview"
	GetCategoryStatsProcedure      = "/budgetwise.v1.BudgetService/GetCategoryStats"
	GetProfileProcedure            = "/budgetwise.v1.BudgetService/GetProfile"
	UpdateProfileProcedure         = "/budgetwise.v1.BudgetService/UpdateProfile"
	AskProcedure                   = "/budgetwise.v1.BudgetService/Ask"
	GetInsightsProcedure           = "/budgetwise.v1.BudgetService/GetInsights"
	GetRecommendationsProcedure    = "/budgetwise.v1.BudgetService/GetRecommendations"
	AnalyzeAnomaliesProcedure      = "/budgetwise.v1.BudgetService/AnalyzeAnomalies"
	GetSavingsSuggestionsProcedure = "/budgetwise.v1.BudgetService/GetSavingsSuggestions"
	CheckAssistantProcedure        = "/budgetwise.v1.BudgetService/CheckAssistant"
)

func unary[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewBudgetServiceHandler builds an HTTP handler serving every procedure of
// svc with the JSON codec. It returns the path prefix to mount it on.
func NewBudgetServiceHandler(svc *BudgetService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	mux := http.NewServeMux()

	unary(mux, ListCategoriesProcedure, svc.ListCategories, opts)
	unary(mux, ListBudgetsProcedure, svc.ListBudgets, opts)
	unary(mux, CreateBudgetProcedure, svc.CreateBudget, opts)
	unary(mux, UpdateBudgetProcedure, svc.UpdateBudget, opts)
	unary(mux, DeleteBudgetProcedure, svc.DeleteBudget, opts)
	unary(mux, CreateEntryProcedure, svc.CreateEntry, opts)
	unary(mux, UpdateEntryProcedure, svc.UpdateEntry, opts)
	unary(mux, DeleteEntryProcedure, svc.DeleteEntry, opts)
	unary(mux, ListEntriesProcedure, svc.ListEntries, opts)
	unary(mux, GetOverviewProcedure, svc.GetOverview, opts)
	unary(mux, GetCategoryStatsProcedure, svc.GetCategoryStats, opts)
	unary(mux, GetProfileProcedure, svc.GetProfile, opts)
	unary(mux, UpdateProfileProcedure, svc.UpdateProfile, opts)
	unary(mux, AskProcedure, svc.Ask, opts)
	unary(mux, GetInsightsProcedure, svc.GetInsights, opts)
	unary(mux, GetRecommendationsProcedure, svc.GetRecommendations, opts)
	unary(mux, AnalyzeAnomaliesProcedure, svc.AnalyzeAnomalies, opts)
	unary(mux, GetSavingsSuggestionsProcedure, svc.GetSavingsSuggestions, opts)
	unary(mux, CheckAssistantProcedure, svc.CheckAssistant, opts)

	return "/" + ServiceName + "/", mux
}

// BudgetServiceClient calls a remote BudgetService.
type BudgetServiceClient struct {
	listCategories        *connect.Client[ListCategoriesRequest, ListCategoriesResponse]
	listBudgets           *connect.Client[ListBudgetsRequest, ListBudgetsResponse]
	createBudget          *connect.Client[CreateBudgetRequest, BudgetResponse]
	updateBudget          *connect.Client[UpdateBudgetRequest, BudgetResponse]
	deleteBudget          *connect.Client[DeleteBudgetRequest, MessageResponse]
	createEntry           *connect.Client[CreateEntryRequest, CreateEntryResponse]
	updateEntry           *connect.Client[UpdateEntryRequest, EntryResponse]
	deleteEntry           *connect.Client[DeleteEntryRequest, MessageResponse]
	listEntries           *connect.Client[ListEntriesRequest, ListEntriesResponse]
	getOverview           *connect.Client[GetOverviewRequest, analytics.Overview]
	getCategoryStats      *connect.Client[GetCategoryStatsRequest, analytics.CategoryStats]
	getProfile            *connect.Client[GetProfileRequest, ProfileResponse]
	updateProfile         *connect.Client[UpdateProfileRequest, ProfileResponse]
	ask                   *connect.Client[AskRequest, assistant.Answer]
	getInsights           *connect.Client[GetInsightsRequest, assistant.InsightsReport]
	getRecommendations    *connect.Client[GetRecommendationsRequest, RecommendationsResponse]
	analyzeAnomalies      *connect.Client[AnalyzeAnomaliesRequest, AnomaliesResponse]
	getSavingsSuggestions *connect.Client[GetSavingsSuggestionsRequest, SavingsResponse]
	checkAssistant        *connect.Client[CheckAssistantRequest, assistant.ConnectionStatus]
}

// NewBudgetServiceClient creates a client for the service at baseURL, for
// example http://localhost:8111.
func NewBudgetServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BudgetServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &BudgetServiceClient{
		listCategories:        connect.NewClient[ListCategoriesRequest, ListCategoriesResponse](httpClient, baseURL+ListCategoriesProcedure, opts...),
		listBudgets:           connect.NewClient[ListBudgetsRequest, ListBudgetsResponse](httpClient, baseURL+ListBudgetsProcedure, opts...),
		createBudget:          connect.NewClient[CreateBudgetRequest, BudgetResponse](httpClient, baseURL+CreateBudgetProcedure, opts...),
		updateBudget:          connect.NewClient[UpdateBudgetRequest, BudgetResponse](httpClient, baseURL+UpdateBudgetProcedure, opts...),
		deleteBudget:          connect.NewClient[DeleteBudgetRequest, MessageResponse](httpClient, baseURL+DeleteBudgetProcedure, opts...),
		createEntry:           connect.NewClient[CreateEntryRequest, CreateEntryResponse](httpClient, baseURL+CreateEntryProcedure, opts...),
		updateEntry:           connect.NewClient[UpdateEntryRequest, EntryResponse](httpClient, baseURL+UpdateEntryProcedure, opts...),
		deleteEntry:           connect.NewClient[DeleteEntryRequest, MessageResponse](httpClient, baseURL+DeleteEntryProcedure, opts...),
		listEntries:           connect.NewClient[ListEntriesRequest, ListEntriesResponse](httpClient, baseURL+ListEntriesProcedure, opts...),
		getOverview:           connect.NewClient[GetOverviewRequest, analytics.Overview](httpClient, baseURL+GetOverviewProcedure, opts...),
		getCategoryStats:      connect.NewClient[GetCategoryStatsRequest, analytics.CategoryStats](httpClient, baseURL+GetCategoryStatsProcedure, opts...),
		getProfile:            connect.NewClient[GetProfileRequest, ProfileResponse](httpClient, baseURL+GetProfileProcedure, opts...),
		updateProfile:         connect.NewClient[UpdateProfileRequest, ProfileResponse](httpClient, baseURL+UpdateProfileProcedure, opts...),
		ask:                   connect.NewClient[AskRequest, assistant.Answer](httpClient, baseURL+AskProcedure, opts...),
		getInsights:           connect.NewClient[GetInsightsRequest, assistant.InsightsReport](httpClient, baseURL+GetInsightsProcedure, opts...),
		getRecommendations:    connect.NewClient[GetRecommendationsRequest, RecommendationsResponse](httpClient, baseURL+GetRecommendationsProcedure, opts...),
		analyzeAnomalies:      connect.NewClient[AnalyzeAnomaliesRequest, AnomaliesResponse](httpClient, baseURL+AnalyzeAnomaliesProcedure, opts...),
		getSavingsSuggestions: connect.NewClient[GetSavingsSuggestionsRequest, SavingsResponse](httpClient, baseURL+GetSavingsSuggestionsProcedure, opts...),
		checkAssistant:        connect.NewClient[CheckAssistantRequest, assistant.ConnectionStatus](httpClient, baseURL+CheckAssistantProcedure, opts...),
	}
}

func (c *BudgetServiceClient) ListCategories(ctx context.Context, req *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) ListBudgets(ctx context.Context, req *connect.Request[ListBudgetsRequest]) (*connect.Response[ListBudgetsResponse], error) {
	return c.listBudgets.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) CreateBudget(ctx context.Context, req *connect.Request[CreateBudgetRequest]) (*connect.Response[BudgetResponse], error) {
	return c.createBudget.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) UpdateBudget(ctx context.Context, req *connect.Request[UpdateBudgetRequest]) (*connect.Response[BudgetResponse], error) {
	return c.updateBudget.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) DeleteBudget(ctx context.Context, req *connect.Request[DeleteBudgetRequest]) (*connect.Response[MessageResponse], error) {
	return c.deleteBudget.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) CreateEntry(ctx context.Context, req *connect.Request[CreateEntryRequest]) (*connect.Response[CreateEntryResponse], error) {
	return c.createEntry.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) UpdateEntry(ctx context.Context, req *connect.Request[UpdateEntryRequest]) (*connect.Response[EntryResponse], error) {
	return c.updateEntry.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) DeleteEntry(ctx context.Context, req *connect.Request[DeleteEntryRequest]) (*connect.Response[MessageResponse], error) {
	return c.deleteEntry.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) ListEntries(ctx context.Context, req *connect.Request[ListEntriesRequest]) (*connect.Response[ListEntriesResponse], error) {
	return c.listEntries.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) GetOverview(ctx context.Context, req *connect.Request[GetOverviewRequest]) (*connect.Response[analytics.Overview], error) {
	return c.getOverview.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) GetCategoryStats(ctx context.Context, req *connect.Request[GetCategoryStatsRequest]) (*connect.Response[analytics.CategoryStats], error) {
	return c.getCategoryStats.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) GetProfile(ctx context.Context, req *connect.Request[GetProfileRequest]) (*connect.Response[ProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[UpdateProfileRequest]) (*connect.Response[ProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) Ask(ctx context.Context, req *connect.Request[AskRequest]) (*connect.Response[assistant.Answer], error) {
	return c.ask.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) GetInsights(ctx context.Context, req *connect.Request[GetInsightsRequest]) (*connect.Response[assistant.InsightsReport], error) {
	return c.getInsights.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) GetRecommendations(ctx context.Context, req *connect.Request[GetRecommendationsRequest]) (*connect.Response[RecommendationsResponse], error) {
	return c.getRecommendations.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) AnalyzeAnomalies(ctx context.Context, req *connect.Request[AnalyzeAnomaliesRequest]) (*connect.Response[AnomaliesResponse], error) {
	return c.analyzeAnomalies.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) GetSavingsSuggestions(ctx context.Context, req *connect.Request[GetSavingsSuggestionsRequest]) (*connect.Response[SavingsResponse], error) {
	return c.getSavingsSuggestions.CallUnary(ctx, req)
}

func (c *BudgetServiceClient) CheckAssistant(ctx context.Context, req *connect.Request[CheckAssistantRequest]) (*connect.Response[assistant.ConnectionStatus], error) {
	return c.checkAssistant.CallUnary(ctx, req)
}
