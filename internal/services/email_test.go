package services

import (
	"testing"

	"github.com/princeprakhar/restaurant-directory/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestEmailServiceEnabled(t *testing.T) {
	var missing *EmailService
	assert.False(t, missing.Enabled())
	assert.False(t, NewEmailService(&config.Config{}).Enabled())
	assert.True(t, NewEmailService(&config.Config{SMTPHost: "smtp.example.com"}).Enabled())
}

func TestWelcomeBodyEscapesName(t *testing.T) {
	body := welcomeBody("<b>Eve</b>", "https://food.example.com")

	assert.Contains(t, body, "Welcome, &lt;b&gt;Eve&lt;/b&gt;!")
	assert.Contains(t, body, `href="https://food.example.com/restaurants"`)
}
