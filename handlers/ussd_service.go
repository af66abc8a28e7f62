// handlers/ussd_service.go
//
// USSD/SMS integration for feature phones, via Africa's Talking. Every
// inbound session and outbound push is logged to the database; logging
// failures never break the telephony flow.
package handlers

import (
	"log"
	"sync"

	"gorm.io/gorm"

	"farmnav.ao/api/config"
	"farmnav.ao/api/models"
	"farmnav.ao/api/utils"
)

const (
	ussdWelcome = "END Bem-vindo ao Farm Navigators!\n\n" +
		"Serviço de informações agrícolas para Angola.\n" +
		"Para mais informações, contacte-nos através da nossa aplicação móvel."

	ussdGoodbye = "END Obrigado por usar o Farm Navigators!\n\n" +
		"Para acesso completo aos nossos serviços de agricultura inteligente,\n" +
		"baixe a nossa aplicação móvel."

	ussdError = "END Erro temporário no serviço. Tente novamente mais tarde."

	smsNotConfigured = "Serviço de SMS não configurado. Contacte o administrador do sistema."
)

type UssdService struct {
	db          *gorm.DB
	sms         *utils.SMSClient
	serviceCode string
}

// NewUssdService builds the service. The SMS client stays nil when Africa's
// Talking credentials are missing or still the sandbox placeholder; inbound
// sessions keep working, only pushes are disabled.
func NewUssdService(db *gorm.DB, username, apiKey, serviceCode string) *UssdService {
	svc := &UssdService{db: db, serviceCode: serviceCode}
	if username == "" || apiKey == "" || apiKey == "your_sandbox_api_key_here" {
		log.Println("[USSD] Africa's Talking credentials missing, SMS push disabled")
		return svc
	}
	svc.sms = utils.NewSMSClient(username, apiKey)
	return svc
}

var (
	ussdOnce sync.Once
	ussd     *UssdService
)

func ussdSvc() *UssdService {
	ussdOnce.Do(func() {
		ussd = NewUssdService(config.DB, config.ATUsername(), config.ATAPIKey(), config.ATServiceCode())
	})
	return ussd
}

// HandleRequest answers one USSD session step. Responses are terminal ("END")
// in both states: the dialog is a two-screen informational service, not a
// menu tree.
func (s *UssdService) HandleRequest(sessionID, serviceCode, phone, text string) (response string) {
	// The gateway retries nothing: whatever happens, the subscriber must get
	// a terminal screen back.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[USSD] session %s panicked: %v", sessionID, rec)
			response = ussdError
			s.logEvent(phone, text, response, models.UssdStatusError)
		}
	}()

	s.logEvent(phone, text, "", models.UssdStatusReceived)

	if text == "" {
		response = ussdWelcome
	} else {
		response = ussdGoodbye
	}

	s.logEvent(phone, text, response, models.UssdStatusSent)
	return response
}

// SendPush delivers an SMS notification. Failures are reported in the result
// map, never as an error: telephony problems must not fail the caller's
// request.
func (s *UssdService) SendPush(phone, message string) map[string]interface{} {
	if s.sms == nil {
		return map[string]interface{}{
			"success": false,
			"message": smsNotConfigured,
		}
	}

	result, err := s.sms.Send(phone, s.serviceCode, "Farm Navigators: "+message)
	if err != nil {
		log.Printf("[USSD] SMS push to %s failed: %v", phone, err)
		s.logEvent(phone, message, err.Error(), models.UssdStatusError)
		return map[string]interface{}{
			"success": false,
			"message": "Falha ao enviar SMS",
		}
	}

	s.logEvent(phone, message, "push", models.UssdStatusPushSent)
	return map[string]interface{}{
		"success": true,
		"message": "SMS enviado com sucesso",
		"result":  result,
	}
}

// Logs returns interaction history, newest first. With a phone filter the
// default window shrinks to the subscriber's recent activity.
func (s *UssdService) Logs(limit int, phone string) ([]models.USSDLog, error) {
	q := s.db.Model(&models.USSDLog{}).Order("created_at DESC")
	if phone != "" {
		q = q.Where("phone = ?", phone)
		if limit <= 0 {
			limit = 50
		}
	}
	if limit <= 0 {
		limit = 100
	}

	var logs []models.USSDLog
	if err := q.Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *UssdService) logEvent(phone, request, response, status string) {
	row := models.USSDLog{
		Phone:    phone,
		Request:  request,
		Response: response,
		Status:   status,
	}
	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("[USSD] failed to log interaction: %v", err)
	}
}
