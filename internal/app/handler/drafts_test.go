package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"formbackend/internal/app/dto"
	"formbackend/internal/app/handler/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSaveAndGetDraft(t *testing.T) {
	kv, mr := newKV(t)
	env := newTestEnv(t, Deps{KV: kv})

	w := env.do(jsonRequest(http.MethodPost, "/api/save-draft", `{"formId":"contact","data":{"name":"Ja"}}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved dto.SaveDraftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.True(t, saved.Success)
	require.NotEmpty(t, saved.DraftID)
	assert.Equal(t, testDraftTTL, mr.TTL("draft:"+saved.DraftID))

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/get-draft?id="+saved.DraftID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"formId":"contact","data":{"name":"Ja"},"savedAt":"2024-03-01T12:00:00.000Z"}`, w.Body.String())
}

func TestSaveDraftOverwritesGivenID(t *testing.T) {
	kv, _ := newKV(t)
	env := newTestEnv(t, Deps{KV: kv})

	for _, name := range []string{"Ja", "Jane"} {
		w := env.do(jsonRequest(http.MethodPost, "/api/save-draft", `{"draftId":"d1","formId":"contact","data":{"name":"`+name+`"}}`))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"draftId":"d1"}`, w.Body.String())
	}

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/get-draft?id=d1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jane", decode(t, w)["data"].(map[string]any)["name"])
}

func TestDraftExpires(t *testing.T) {
	kv, mr := newKV(t)
	env := newTestEnv(t, Deps{KV: kv})

	w := env.do(jsonRequest(http.MethodPost, "/api/save-draft", `{"draftId":"d1","formId":"contact","data":{}}`))
	require.Equal(t, http.StatusOK, w.Code)

	mr.FastForward(testDraftTTL - time.Minute)
	w = env.do(httptest.NewRequest(http.MethodGet, "/api/get-draft?id=d1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	mr.FastForward(2 * time.Minute)
	w = env.do(httptest.NewRequest(http.MethodGet, "/api/get-draft?id=d1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Draft not found"}`, w.Body.String())
}

func TestDraftsWithoutKV(t *testing.T) {
	env := newTestEnv(t, Deps{})

	w := env.do(jsonRequest(http.MethodPost, "/api/save-draft", `{"draftId":"d1","data":{}}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"draftId":"d1"}`, w.Body.String())

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/get-draft?id=d1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Draft not found"}`, w.Body.String())
}

func TestGetDraftMissingID(t *testing.T) {
	kv, _ := newKV(t)
	env := newTestEnv(t, Deps{KV: kv})

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/get-draft", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDraftStoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKeyValueStore(ctrl)
	kv.EXPECT().PutJSON(gomock.Any(), "draft:d1", gomock.Any(), testDraftTTL).Return(errors.New("OOM"))
	kv.EXPECT().GetJSON(gomock.Any(), "draft:d1", gomock.Any()).Return(false, errors.New("OOM"))

	env := newTestEnv(t, Deps{KV: kv})

	w := env.do(jsonRequest(http.MethodPost, "/api/save-draft", `{"draftId":"d1","data":{}}`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to save draft"}`, w.Body.String())

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/get-draft?id=d1", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to retrieve draft"}`, w.Body.String())
}

func TestSaveDraftMalformedBody(t *testing.T) {
	env := newTestEnv(t, Deps{})

	w := env.do(jsonRequest(http.MethodPost, "/api/save-draft", `[`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w)["error"], "invalid draft body")
}
