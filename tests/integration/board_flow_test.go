package integration

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestBoardFlow_AllocateAndSpend(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "board@test.com", "password123")

	// Step 1: allocate income and a spending bucket
	rec := app.request("POST", "/api/v1/categories/income/items",
		`{"name":"Salary","amount":2500}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating income, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/v1/categories/fun/items",
		`{"name":"Dining","amount":200}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating bucket, got %d: %s", rec.Code, rec.Body.String())
	}
	bucket := parseJSON(t, rec)["item"].(map[string]interface{})
	bucketID := bucket["id"].(string)

	// Step 2: totals reflect the allocation in cents
	rec = app.request("GET", "/api/v1/summary", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)
	if summary["income"].(float64) != 250000 {
		t.Errorf("expected income 250000, got %.0f", summary["income"].(float64))
	}
	if summary["allocated"].(float64) != 20000 {
		t.Errorf("expected allocated 20000, got %.0f", summary["allocated"].(float64))
	}
	if summary["remaining"].(float64) != 230000 {
		t.Errorf("expected remaining 230000, got %.0f", summary["remaining"].(float64))
	}

	// Step 3: log spend against the bucket
	rec = app.request("POST", "/api/v1/expenses",
		fmt.Sprintf(`{"label":"Pizza night","amount":45.50,"bucket_id":%q}`, bucketID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating expense, got %d: %s", rec.Code, rec.Body.String())
	}
	expense := parseJSON(t, rec)["expense"].(map[string]interface{})
	if expense["bucketName"] != "Dining" || expense["categoryId"] != "fun" {
		t.Errorf("expected denormalized bucket fields, got %v", expense)
	}

	rec = app.request("GET", "/api/v1/summary", "", token)
	summary = parseJSON(t, rec)
	if summary["totalSpent"].(float64) != 4550 {
		t.Errorf("expected totalSpent 4550, got %.0f", summary["totalSpent"].(float64))
	}
	if summary["available"].(float64) != 15450 {
		t.Errorf("expected available 15450, got %.0f", summary["available"].(float64))
	}

	// Step 4: deleting the bucket archives it rather than orphaning the expense
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/categories/fun/items/%s", bucketID), "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 deleting bucket, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/buckets", "", token)
	buckets := parseJSON(t, rec)["buckets"].([]interface{})
	var archived map[string]interface{}
	for _, b := range buckets {
		bucket := b.(map[string]interface{})
		if bucket["id"] == bucketID {
			archived = bucket
		}
	}
	if archived == nil {
		t.Fatalf("expected an archived placeholder for the deleted bucket, got %v", buckets)
	}
	if archived["archived"] != true || archived["name"] != "Dining" {
		t.Errorf("unexpected placeholder: %v", archived)
	}

	// The expense still lists with its denormalized fields
	rec = app.request("GET", "/api/v1/expenses", "", token)
	data := parseJSON(t, rec)["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(data))
	}
	if data[0].(map[string]interface{})["bucketName"] != "Dining" {
		t.Errorf("expected expense to survive bucket deletion: %v", data[0])
	}
}

func TestBoardFlow_UsersAreIsolated(t *testing.T) {
	app := setupApp(t)
	aliceToken, _ := app.registerUser(t, "alice@test.com", "password123")
	bobToken, _ := app.registerUser(t, "bob@test.com", "password123")

	rec := app.request("POST", "/api/v1/categories/income/items",
		`{"name":"Salary","amount":3000}`, aliceToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/summary", "", bobToken)
	summary := parseJSON(t, rec)
	if summary["income"].(float64) != 0 {
		t.Errorf("expected bob to see no income, got %.0f", summary["income"].(float64))
	}
}

func TestBoardFlow_ImportExport(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "csv@test.com", "password123")

	csv := "Category,Label,Amount\r\nincome,Salary,2500.00\r\nfun,Dining,200.00\r\n"
	rec := app.request("POST", "/api/v1/board/import", csv, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 importing, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/board/export", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 exporting, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "income,Salary,2500.00") || !strings.Contains(body, "fun,Dining,200.00") {
		t.Errorf("unexpected export body: %q", body)
	}

	// A bad row aborts the whole import and leaves state untouched
	rec = app.request("POST", "/api/v1/board/import",
		"Category,Label,Amount\r\nsavings,Nope,100.00\r\n", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad import, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/summary", "", token)
	if income := parseJSON(t, rec)["income"].(float64); income != 250000 {
		t.Errorf("expected prior state to survive a failed import, got income %.0f", income)
	}

	// Spreadsheet export needs the advanced plan
	rec = app.request("GET", "/api/v1/board/export?format=xlsx", "", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for xlsx on basic, got %d", rec.Code)
	}

	rec = app.request("PUT", "/api/v1/profile/plan", `{"plan":"advanced"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 upgrading, got %d", rec.Code)
	}

	rec = app.request("GET", "/api/v1/board/export?format=xlsx", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for xlsx on advanced, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Error("expected a zip container")
	}
}
