package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Códigos de máquina estables para clientes (el texto puede cambiar, el
// código no):
//
//	11xx  request malformada
//	12xx  auth (credenciales, tokens)
//	13xx  webhook
//	14xx  rate limiting / recursos
//	15xx  server
const (
	CodeInvalidJSON         = 1101
	CodeMissingFields       = 1102
	CodeInvalidPayload      = 1103
	CodeInvalidCredentials  = 1201
	CodeInvalidToken        = 1202
	CodeTokenMissing        = 1203
	CodeForbidden           = 1204
	CodeWebhookUnauthorized = 1301
	CodeRateLimited         = 1401
	CodeNotFound            = 1404
	CodeInternal            = 1500
)

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorCode        int    `json:"error_code,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, code, desc string, errCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rid := w.Header().Get("X-Request-ID")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{
		Error:            code,
		ErrorDescription: desc,
		ErrorCode:        errCode,
		RequestID:        rid,
	})
}

// WriteJSON: respuesta JSON estándar
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadJSON decodifica el body de forma tolerante (NO falla por campos
// desconocidos: el userbot agrega campos nuevos sin coordinar deploys).
// Valida Content-Type y limita el tamaño del body a 1MB.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		WriteError(w, http.StatusBadRequest, "invalid_json", "Content-Type debe ser application/json", CodeInvalidJSON)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "invalid_json", "json inválido", CodeInvalidJSON)
		return false
	}
	return true
}
