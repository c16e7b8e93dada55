package installer

// Package installer implements the per-item orchestration core: an item
// registration service, one controller per item driving the
// query/act/settle state machine over the backend HTTP contract, a shared
// progress registry polling byte counts for in-flight downloads, and the
// one-shot Hugging Face re-authentication sub-flow.
