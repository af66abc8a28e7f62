package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmnav.ao/api/models"
)

func TestHandleRequestWelcomeScreen(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUssdService(db, "", "", "FarmNav")

	response := svc.HandleRequest("sess-1", "*384#", "+244923000111", "")
	assert.Contains(t, response, "END Bem-vindo ao Farm Navigators!")

	var logs []models.USSDLog
	require.NoError(t, db.Order("created_at ASC").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, models.UssdStatusReceived, logs[0].Status)
	assert.Equal(t, models.UssdStatusSent, logs[1].Status)
	assert.Equal(t, "+244923000111", logs[1].Phone)
	assert.Equal(t, response, logs[1].Response)
}

func TestHandleRequestGoodbyeScreen(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUssdService(db, "", "", "FarmNav")

	response := svc.HandleRequest("sess-2", "*384#", "+244923000111", "1")
	assert.Contains(t, response, "END Obrigado por usar o Farm Navigators!")
	assert.Contains(t, response, "aplicação móvel")
}

func TestSendPushWithoutCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUssdService(db, "", "", "FarmNav")

	result := svc.SendPush("+244923000111", "Chuva prevista amanhã")
	assert.Equal(t, false, result["success"])
	assert.Contains(t, result["message"], "SMS não configurado")

	// No credentials means no gateway call and no log row.
	var count int64
	db.Model(&models.USSDLog{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestSendPushPlaceholderKeyIsIgnored(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUssdService(db, "sandbox", "your_sandbox_api_key_here", "FarmNav")

	result := svc.SendPush("+244923000111", "Olá")
	assert.Equal(t, false, result["success"])
}

func TestUssdLogs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUssdService(db, "", "", "FarmNav")

	svc.HandleRequest("s1", "*384#", "+244923000111", "")
	svc.HandleRequest("s2", "*384#", "+244923000222", "1")

	all, err := svc.Logs(0, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	filtered, err := svc.Logs(0, "+244923000222")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, row := range filtered {
		assert.Equal(t, "+244923000222", row.Phone)
	}
}
