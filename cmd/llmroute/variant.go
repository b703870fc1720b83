package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm"
	"github.com/lwmacct/251215-go-pkg-llmroute/pkg/llm/provider/ollama"
)

// variantInfo 变体诊断信息
type variantInfo struct {
	Model            string
	Variant          llm.Variant
	EnvVar           string
	CredentialSet    bool
	CredentialNeeded bool
	BaseURL          string
}

// describeVariant 汇总模型名称对应的变体信息
//
// 只报告凭证是否存在，不读取凭证值本身。
func describeVariant(model string) variantInfo {
	v := llm.ResolveVariant(model)
	info := variantInfo{
		Model:            model,
		Variant:          v,
		EnvVar:           v.EnvVarName(),
		CredentialSet:    os.Getenv(v.EnvVarName()) != "",
		CredentialNeeded: v.RequiresCredential(),
		BaseURL:          v.DefaultBaseURL(),
	}

	switch v {
	case llm.VariantOpenAI:
		if env := os.Getenv(llm.EnvOpenAIBaseURL); env != "" {
			info.BaseURL = env
		}
	case llm.VariantOllama:
		if host := ollama.NormalizeHost(os.Getenv(llm.EnvOllamaHost)); host != "" {
			info.BaseURL = host
		}
	}
	return info
}

func newVariantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variant <model>",
		Short: "Show which backend a model name resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := describeVariant(args[0])
			w := cmd.OutOrStdout()

			cyan := color.New(color.FgCyan, color.Bold)
			green := color.New(color.FgGreen)
			yellow := color.New(color.FgYellow)

			cyan.Fprintf(w, "%s -> %s\n", info.Model, info.Variant)
			fmt.Fprintf(w, "  base url: %s\n", info.BaseURL)

			switch {
			case info.CredentialSet:
				green.Fprintf(w, "  credential: %s is set\n", info.EnvVar)
			case info.CredentialNeeded:
				yellow.Fprintf(w, "  credential: %s is not set (config api_key required)\n", info.EnvVar)
			default:
				fmt.Fprintf(w, "  credential: %s is not set (optional)\n", info.EnvVar)
			}
			return nil
		},
	}
}
