package platform

// Package platform contains pure parsing glue between the host dialog and
// the installer core: free-text label resolution into directory/filename
// pairs, directory inference from URL segments, and Hugging Face download
// URL normalization.
