// Package file provides file-based configuration adapters.
//
// Adapters:
//   - ConfigStore: TOML configuration in ~/.dealscope/config.toml
//   - PromptStore: user-editable summary prompts in ~/.dealscope/prompts/
//   - LoadEnvFile: API keys from a dotenv file
package file
