// Package agent implements the LLM-backed move proposer and move validator.
// All parsing of loose model output into structured data happens here;
// callers only ever see typed candidates, verdicts, or typed errors.
package agent
