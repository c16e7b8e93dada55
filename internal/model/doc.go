package model

// Package model defines domain data structures used across the app: model
// items with their identity and status enums, storage options, and download
// progress records. Structures are designed for direct binding in the UI and
// explicit state transitions.
