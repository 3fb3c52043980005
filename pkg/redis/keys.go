package redis

import "fmt"

// Redis key patterns for the application.
// Following the pattern: prefix:entity:id or prefix:entity:id:attribute

var keyPrefix = "gridwatch"

// InitKeys sets the namespace prepended to every key. An empty prefix keeps the default.
func InitKeys(prefix string) {
	if prefix != "" {
		keyPrefix = prefix
	}
}

func key(format string, args ...interface{}) string {
	return keyPrefix + ":" + fmt.Sprintf(format, args...)
}

// User keys
func UserKey(userID string) string {
	return key("user:%s", userID)
}

func UserByEmailKey(email string) string {
	return key("user_email:%s", email)
}

// Session keys
func SessionKey(sessionID string) string {
	return key("session:%s", sessionID)
}

func UserSessionsKey(userID string) string {
	return key("user_sessions:%s", userID)
}

func TokenBlacklistKey(token string) string {
	return key("token_blacklist:%s", token)
}

// Exchange credentials, one pair per user
func CredentialKey(userID string) string {
	return key("credential:%s", userID)
}

// User settings
func SettingsKey(userID string) string {
	return key("settings:%s", userID)
}

// Grid bot configuration keys
func BotKey(botID string) string {
	return key("bot:%s", botID)
}

func UserBotsKey(userID string) string {
	return key("user_bots:%s", userID)
}

// Rate limiting keys
func RateLimitKey(identifier, action string) string {
	return key("rate_limit:%s:%s", action, identifier)
}
