// Package model defines the normalized request/response structures the agent
// uses to drive language model generation, decoupled from any provider SDK.
// Provider adapters live in the subpackages (openai, anthropic).
package model
