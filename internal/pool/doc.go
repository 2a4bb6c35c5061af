// Package pool turns study pool sources into engine image pools and loads
// the images behind them.
//
// Local images are referenced by absolute path; object store images by
// s3://bucket/key. The Loader fetches either kind, decodes it, and keeps a
// block-character rendering in an LRU cache for the terminal UI.
package pool
