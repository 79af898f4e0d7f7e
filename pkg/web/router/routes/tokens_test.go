package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"

	"github.com/oakridge-sis/secure-sync-server/pkg/domain"
	"github.com/oakridge-sis/secure-sync-server/pkg/dto"
	"github.com/oakridge-sis/secure-sync-server/pkg/tokens"
	"github.com/oakridge-sis/secure-sync-server/pkg/web/testutils"
)

func TestGenerateToken(t *testing.T) {
	// Arrange
	student := testutils.GenerateStudent()
	token := testutils.GenerateToken(student.ID)
	req, err := http.NewRequest("POST", fmt.Sprintf("/%s", student.ID), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = testutils.AddOperatorContext(req, "registrar@oakridge", "sync-admin")

	injector := do.New()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockEngine := tokens.NewMockEngine(ctrl)
	mockEngine.EXPECT().GenerateToken(student.ID).Return(token, nil)
	do.Provide(injector, func(i *do.Injector) (tokens.Engine, error) {
		return mockEngine, nil
	})

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Post("/{studentId}", generateToken(injector))
	router.ServeHTTP(rr, req)

	// Assert
	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	var tokenDto dto.TokenDto
	err = json.NewDecoder(rr.Body).Decode(&tokenDto)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, token.TokenValue, tokenDto.TokenValue)
	assert.Equal(t, token.SchoolYear, tokenDto.SchoolYear)
	assert.True(t, tokenDto.Active)
}

func TestGenerateTokenBadStudentId(t *testing.T) {
	// Arrange
	req, err := http.NewRequest("POST", "/not-a-uuid", nil)
	if err != nil {
		t.Fatal(err)
	}
	injector := do.New()

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Post("/{studentId}", generateToken(injector))
	router.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerateTokenUnknownStudent(t *testing.T) {
	// Arrange
	studentID := uuid.New()
	req, err := http.NewRequest("POST", fmt.Sprintf("/%s", studentID), nil)
	if err != nil {
		t.Fatal(err)
	}

	injector := do.New()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockEngine := tokens.NewMockEngine(ctrl)
	mockEngine.EXPECT().GenerateToken(studentID).Return(nil, domain.Validation("unknown student"))
	do.Provide(injector, func(i *do.Injector) (tokens.Engine, error) {
		return mockEngine, nil
	})

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Post("/{studentId}", generateToken(injector))
	router.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var errDto dto.ErrorDto
	err = json.NewDecoder(rr.Body).Decode(&errDto)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "validation", errDto.Kind)
}

func TestGenerateAllTokens(t *testing.T) {
	// Arrange
	req, err := http.NewRequest("POST", "/generate-all", nil)
	if err != nil {
		t.Fatal(err)
	}
	summary := &dto.TokenBatchSummaryDto{Total: 10, Generated: 8, Skipped: 2}

	injector := do.New()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockEngine := tokens.NewMockEngine(ctrl)
	mockEngine.EXPECT().GenerateAllTokens().Return(summary, nil)
	do.Provide(injector, func(i *do.Injector) (tokens.Engine, error) {
		return mockEngine, nil
	})

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Post("/generate-all", generateAllTokens(injector))
	router.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	var result dto.TokenBatchSummaryDto
	err = json.NewDecoder(rr.Body).Decode(&result)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 10, result.Total)
	assert.Equal(t, 8, result.Generated)
	assert.Equal(t, 2, result.Skipped)
}

func TestRotateToken(t *testing.T) {
	// Arrange
	student := testutils.GenerateStudent()
	rotated := testutils.GenerateToken(student.ID)
	rotated.RotationCount = 1
	body := &bytes.Buffer{}
	err := json.NewEncoder(body).Encode(dto.RotateTokenRequest{Reason: "token exposed in report"})
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest("POST", fmt.Sprintf("/%s/rotate", student.ID), body)
	if err != nil {
		t.Fatal(err)
	}

	injector := do.New()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockEngine := tokens.NewMockEngine(ctrl)
	mockEngine.EXPECT().RotateToken(student.ID, "token exposed in report").Return(rotated, nil)
	do.Provide(injector, func(i *do.Injector) (tokens.Engine, error) {
		return mockEngine, nil
	})

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Post("/{studentId}/rotate", rotateToken(injector))
	router.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	var tokenDto dto.TokenDto
	err = json.NewDecoder(rr.Body).Decode(&tokenDto)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, tokenDto.RotationCount)
}

func TestRotateTokenRequiresReason(t *testing.T) {
	// Arrange
	body := &bytes.Buffer{}
	err := json.NewEncoder(body).Encode(dto.RotateTokenRequest{})
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest("POST", fmt.Sprintf("/%s/rotate", uuid.New()), body)
	if err != nil {
		t.Fatal(err)
	}
	injector := do.New()

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Post("/{studentId}/rotate", rotateToken(injector))
	router.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRotateTokenNotFound(t *testing.T) {
	// Arrange
	studentID := uuid.New()
	body := &bytes.Buffer{}
	err := json.NewEncoder(body).Encode(dto.RotateTokenRequest{Reason: "suspected exposure"})
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest("POST", fmt.Sprintf("/%s/rotate", studentID), body)
	if err != nil {
		t.Fatal(err)
	}

	injector := do.New()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockEngine := tokens.NewMockEngine(ctrl)
	mockEngine.EXPECT().RotateToken(studentID, "suspected exposure").Return(nil, domain.NotFound("no active token"))
	do.Provide(injector, func(i *do.Injector) (tokens.Engine, error) {
		return mockEngine, nil
	})

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Post("/{studentId}/rotate", rotateToken(injector))
	router.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRotateAnnual(t *testing.T) {
	// Arrange
	req, err := http.NewRequest("POST", "/rotate-annual", nil)
	if err != nil {
		t.Fatal(err)
	}
	summary := &dto.TokenBatchSummaryDto{Total: 5, Generated: 5}

	injector := do.New()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockEngine := tokens.NewMockEngine(ctrl)
	mockEngine.EXPECT().PerformAnnualRotation().Return(summary, nil)
	do.Provide(injector, func(i *do.Injector) (tokens.Engine, error) {
		return mockEngine, nil
	})

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Post("/rotate-annual", rotateAnnual(injector))
	router.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	var result dto.TokenBatchSummaryDto
	err = json.NewDecoder(rr.Body).Decode(&result)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 5, result.Generated)
}

func TestValidateToken(t *testing.T) {
	// Arrange
	req, err := http.NewRequest("GET", "/validate/STU-A1B2C3", nil)
	if err != nil {
		t.Fatal(err)
	}
	result := &dto.TokenValidationDto{Valid: true, SchoolYear: "2025-2026"}

	injector := do.New()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockEngine := tokens.NewMockEngine(ctrl)
	mockEngine.EXPECT().ValidateToken("STU-A1B2C3").Return(result, nil)
	do.Provide(injector, func(i *do.Injector) (tokens.Engine, error) {
		return mockEngine, nil
	})

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Get("/validate/{tokenValue}", validateToken(injector))
	router.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	var validation dto.TokenValidationDto
	err = json.NewDecoder(rr.Body).Decode(&validation)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, validation.Valid)
	assert.Equal(t, "2025-2026", validation.SchoolYear)
}

func TestValidateTokenMalformed(t *testing.T) {
	// Arrange
	req, err := http.NewRequest("GET", "/validate/garbage", nil)
	if err != nil {
		t.Fatal(err)
	}

	injector := do.New()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockEngine := tokens.NewMockEngine(ctrl)
	mockEngine.EXPECT().ValidateToken("garbage").Return(nil, domain.Validation("malformed token value"))
	do.Provide(injector, func(i *do.Injector) (tokens.Engine, error) {
		return mockEngine, nil
	})

	// Act
	rr := httptest.NewRecorder()
	router := chi.NewRouter()
	router.Get("/validate/{tokenValue}", validateToken(injector))
	router.ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
