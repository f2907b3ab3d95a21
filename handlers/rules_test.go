package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"foodhub-api/models"
	"foodhub-api/services"
)

type memRuleRepo struct {
	rules []models.PricingRule
}

func (r *memRuleRepo) GetActive(_ context.Context) ([]models.PricingRule, error) {
	return r.rules, nil
}

func (r *memRuleRepo) GetAll(_ context.Context) ([]models.PricingRule, error) {
	return append([]models.PricingRule(nil), r.rules...), nil
}

func (r *memRuleRepo) Create(_ context.Context, rule *models.PricingRule) error {
	r.rules = append(r.rules, *rule)
	return nil
}

func (r *memRuleRepo) Update(_ context.Context, id string, rule *models.PricingRule) (*models.PricingRule, error) {
	for i := range r.rules {
		if r.rules[i].ID == id {
			updated := *rule
			updated.ID = id
			r.rules[i] = updated
			return &updated, nil
		}
	}
	return nil, nil
}

func (r *memRuleRepo) Count(_ context.Context) (int, error) {
	return len(r.rules), nil
}

func newRulesRouter(repo *memRuleRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	pricing := services.NewPricingService(repo, nil, nil, nil, nil, nil)
	h := NewRulesHandler(repo, pricing)

	router := gin.New()
	router.GET("/pricing/rules", h.ListRules)
	router.POST("/pricing/rules", h.CreateRule)
	router.PUT("/pricing/rules/:ruleId", h.UpdateRule)
	return router
}

func TestCreateRule(t *testing.T) {
	repo := &memRuleRepo{}
	router := newRulesRouter(repo)

	body, _ := json.Marshal(models.PricingRule{
		Name:           "Weekend Low Demand",
		Type:           models.RuleTypeDemand,
		Priority:       1,
		DemandLevel:    models.DemandLow,
		DemandDiscount: 20,
	})
	req := httptest.NewRequest(http.MethodPost, "/pricing/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(repo.rules) != 1 {
		t.Fatalf("rule not persisted")
	}
	created := repo.rules[0]
	if created.ID == "" || !created.IsActive {
		t.Fatalf("server-assigned fields missing: %+v", created)
	}
}

func TestCreateRuleRejectsInvalid(t *testing.T) {
	repo := &memRuleRepo{}
	router := newRulesRouter(repo)

	cases := []models.PricingRule{
		{Type: models.RuleTypeDemand, Priority: 1},                                    // no name
		{Name: "x", Type: "surge", Priority: 1},                                       // bad type
		{Name: "x", Type: models.RuleTypeLoyalty, Priority: 4, LoyaltyDiscount: 120},  // discount out of range
	}

	for _, rule := range cases {
		body, _ := json.Marshal(rule)
		req := httptest.NewRequest(http.MethodPost, "/pricing/rules", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %+v, got %d", rule, w.Code)
		}
	}
	if len(repo.rules) != 0 {
		t.Fatalf("invalid rules were persisted: %+v", repo.rules)
	}
}

func TestUpdateRuleNotFound(t *testing.T) {
	router := newRulesRouter(&memRuleRepo{})

	body, _ := json.Marshal(models.PricingRule{
		Name: "Renamed", Type: models.RuleTypeDemand, Priority: 1,
	})
	req := httptest.NewRequest(http.MethodPut, "/pricing/rules/missing-id", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListRulesEnvelope(t *testing.T) {
	repo := &memRuleRepo{rules: []models.PricingRule{
		{ID: "r1", Name: "Low Demand", Type: models.RuleTypeDemand, Priority: 1, IsActive: true},
	}}
	router := newRulesRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/pricing/rules", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool                 `json:"success"`
		Data    []models.PricingRule `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || len(resp.Data) != 1 || resp.Data[0].ID != "r1" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}
