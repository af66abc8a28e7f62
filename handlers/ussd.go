// handlers/ussd.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"farmnav.ao/api/utils"
)

type ussdWebhookReq struct {
	SessionID   string `json:"sessionId"`
	ServiceCode string `json:"serviceCode"`
	PhoneNumber string `json:"phoneNumber"`
	Text        string `json:"text"`
}

// UssdWebhook receives session callbacks from the telephony gateway. The
// reply is the gateway's own contract — a bare {"response": "..."} object,
// not the API envelope.
func UssdWebhook(w http.ResponseWriter, r *http.Request) {
	var req ussdWebhookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	response := ussdSvc().HandleRequest(req.SessionID, req.ServiceCode, req.PhoneNumber, req.Text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"response": response})
}

type ussdPushReq struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendUssdPush delivers an SMS notification to a subscriber.
func SendUssdPush(w http.ResponseWriter, r *http.Request) {
	var req ussdPushReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	var errs []string
	if req.Phone == "" {
		errs = append(errs, "Telefone é obrigatório")
	}
	if req.Message == "" {
		errs = append(errs, "Mensagem é obrigatória")
	}
	if len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	result := ussdSvc().SendPush(req.Phone, req.Message)
	utils.Respond(w, http.StatusOK, "Notificação processada", result)
}

// GetUssdLogs lists recent USSD/SMS interactions, newest first.
func GetUssdLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	phone := r.URL.Query().Get("phone")

	logs, err := ussdSvc().Logs(limit, phone)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Erro ao consultar registos USSD")
		return
	}
	utils.Respond(w, http.StatusOK, "Registos USSD carregados", logs)
}
