package api

// Package api implements the typed HTTP client for the model installer
// backend: status polling, install/uninstall requests, expected-size lookup,
// Hugging Face login, and the health probe. Idempotent GETs retry transient
// transport failures via go-retryablehttp; POSTs are single-attempt. Non-2xx
// responses surface as *Error with the server's error code and message.
