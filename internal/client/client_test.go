package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docapp/docapp/internal/domain/patient"
)

func newTestClient(url string) *Client {
	return New(Options{
		BaseURL:      url + "/",
		Timeout:      2 * time.Second,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
		Logger:       zerolog.Nop(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestClient_ListPatients(t *testing.T) {
	last := "2024-03-18"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/patients", r.URL.Path)
		writeJSON(w, http.StatusOK, []patient.Patient{{ID: "a1", Name: "Ana Costa", Age: 55, LastVisit: &last}})
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).ListPatients(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a1", items[0].ID)
	require.NotNil(t, items[0].LastVisit)
	assert.Equal(t, "2024-03-18", *items[0].LastVisit)
}

func TestClient_RetriesReads(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "busy"})
			return
		}
		writeJSON(w, http.StatusOK, []patient.Consultation{{ID: "c1", Date: "2024-01-05"}})
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).ListConsultations(context.Background(), "a1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClient_WritesAreNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to update patient",
			"details": "record store unavailable",
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).UpdatePatient(context.Background(), "a1", patient.PatientUpdate{Name: "Ana", Age: 56})
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Failed to update patient", apiErr.Message)
	assert.Equal(t, "record store unavailable", apiErr.Details)
}

func TestClient_UpdatePatientSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/patients/a1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana Costa", body["name"])
		assert.EqualValues(t, 56, body["age"])
		writeJSON(w, http.StatusOK, patient.Patient{ID: "a1", Name: "Ana Costa", Age: 56})
	}))
	defer srv.Close()

	p, err := newTestClient(srv.URL).UpdatePatient(context.Background(), "a1", patient.PatientUpdate{Name: "Ana Costa", Age: 56})
	require.NoError(t, err)
	assert.Equal(t, 56, p.Age)
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Patient not found"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetPatient(context.Background(), "missing")
	assert.True(t, IsNotFound(err))
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, RetryMax: 0, Logger: zerolog.Nop()})
	_, err := c.Seed(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_EscapesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/patients/a%2Fb", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, patient.Patient{ID: "a/b"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetPatient(context.Background(), "a/b")
	require.NoError(t, err)
}

func TestClient_CreateConsultation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/patients/a1/consultations", r.URL.Path)
		var in patient.Consultation
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "2024-03-18", in.Date)
		assert.Equal(t, "Dr. Ana Silva", in.Doctor)
		in.ID, in.PatientID = "c1", "a1"
		writeJSON(w, http.StatusCreated, in)
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL).CreateConsultation(context.Background(), "a1",
		&patient.Consultation{Date: "2024-03-18", Doctor: "Dr. Ana Silva"})
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
	assert.Equal(t, "a1", out.PatientID)
}

func TestClient_CreateConsultationRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date: must be a calendar date (YYYY-MM-DD)"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateConsultation(context.Background(), "a1", &patient.Consultation{Date: "soon"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "date")
}
