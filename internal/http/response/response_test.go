package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAsAppErrorUnwrapsChain(t *testing.T) {
	root := errors.New("db down")
	wrapped := fmt.Errorf("load order: %w", NewAppError(CodeServiceUnavailable, "error.unavailable", "service unavailable", root))

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatalf("expected app error in chain")
	}
	if appErr.Code != CodeServiceUnavailable || appErr.Key != "error.unavailable" {
		t.Fatalf("unexpected app error: %+v", appErr)
	}
	if !errors.Is(wrapped, root) {
		t.Fatalf("root error should stay reachable")
	}
	if _, ok := AsAppError(root); ok {
		t.Fatalf("plain error should not match")
	}
}

func TestFailAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	Fail(c, NewAppError(CodeBadRequest, "error.stock_insufficient", "insufficient stock", nil).WithData(gin.H{"product_id": 3}))

	var resp struct {
		StatusCode int                    `json:"status_code"`
		Msg        string                 `json:"msg"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != CodeBadRequest || resp.Msg != "insufficient stock" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if resp.Data["request_id"] != "req-9" || resp.Data["product_id"] != float64(3) {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(2, 20, 41)
	if p.TotalPage != 3 {
		t.Fatalf("total page want 3 got %d", p.TotalPage)
	}
	if BuildPagination(1, 0, 10).TotalPage != 0 {
		t.Fatalf("zero page size should yield zero pages")
	}
}

func TestSuccessWithPageFlattensEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SuccessWithPage(c, []string{"a"}, BuildPagination(1, 10, 1))

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["status_code"] != float64(0) || resp["msg"] != "success" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	if _, ok := resp["pagination"].(map[string]interface{}); !ok {
		t.Fatalf("pagination should sit next to data: %+v", resp)
	}
}

func TestErrorWithoutRequestIDKeepsData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, CodeNotFound, "not found")

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != CodeNotFound || resp.Data != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
