package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `{"llm":{"api_key":"k"},"search":{"api_key":"s"}}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o" {
		t.Errorf("llm defaults = %+v", cfg.LLM)
	}
	if cfg.Search.Provider != "bing" || cfg.Search.MaxResults != 10 {
		t.Errorf("search defaults = %+v", cfg.Search)
	}
	if cfg.General.DefaultTimeout != 60*time.Second {
		t.Errorf("default timeout = %v", cfg.General.DefaultTimeout)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("server address = %q", cfg.Server.Address)
	}
	if cfg.Report.SectionWorkers != 1 || cfg.Report.SummaryTemperature != 0.3 || cfg.Report.SummaryMaxTokens != 10000 {
		t.Errorf("report defaults = %+v", cfg.Report)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"llm": {"provider": "azure", "api_key": "k", "base_url": "https://acc.openai.azure.com", "deployment": "gpt4"},
		"search": {"provider": "serper", "api_key": "s", "max_results": 5},
		"report": {"section_workers": 4, "continue_on_error": true}
	}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.LLM.Provider != "azure" || cfg.LLM.Deployment != "gpt4" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("search.max_results = %d", cfg.Search.MaxResults)
	}
	if cfg.Report.SectionWorkers != 4 || !cfg.Report.ContinueOnError {
		t.Errorf("report = %+v", cfg.Report)
	}
}

func TestLoadConfigRequiresCredentials(t *testing.T) {
	path := writeConfig(t, `{"search":{"api_key":"s"}}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig accepted a config without llm.api_key")
	}

	path = writeConfig(t, `{"llm":{"api_key":"k"}}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig accepted a config without search.api_key")
	}
}

func TestLoadConfigAzureRequiresDeployment(t *testing.T) {
	path := writeConfig(t, `{"llm":{"provider":"azure","api_key":"k"},"search":{"api_key":"s"}}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig accepted azure config without deployment")
	}
}

func TestReportNormalize(t *testing.T) {
	r := ReportConfig{}.Normalize()
	if r.SectionWorkers != 1 || r.SummaryTemperature != 0.3 || r.SummaryMaxTokens != 10000 {
		t.Fatalf("normalized = %+v", r)
	}
	r = ReportConfig{SectionWorkers: 8, SummaryTemperature: 0.7, SummaryMaxTokens: 2000}.Normalize()
	if r.SectionWorkers != 8 || r.SummaryTemperature != 0.7 || r.SummaryMaxTokens != 2000 {
		t.Fatalf("normalize clobbered explicit values: %+v", r)
	}
}
