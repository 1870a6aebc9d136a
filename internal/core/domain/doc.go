// Package domain defines the core domain models for ampauth: token
// records and their derived status, scope sets, validation verdicts,
// and the structured error taxonomy shared by all layers.
package domain
