package clients

import "time"

const (
	VALKEY_RETRIES = 3
	VALKEY_BACKOFF = 250 * time.Millisecond
	PING_TIMEOUT   = 3 * time.Second
	PREVIEW_LENGTH = 50
	USER_AGENT     = "sentilens-client/1.0 (+https://github.com/spacesedan/sentilens)"
	ENGLISH        = "en"
	GOOGLE_BACKEND = "google"
	OPENAI_BACKEND = "openai"
	LANGUAGES_PATH = "/languages"
)
