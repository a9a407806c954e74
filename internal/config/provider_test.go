package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/weisyn/unitledger/pkg/types"
)

func TestProvider_Defaults(t *testing.T) {
	p := NewProvider(nil)

	if env := p.GetEnvironment(); env != "prod" {
		t.Fatalf("默认环境应为prod got=%s", env)
	}
	if opts := p.GetLedger(); opts.MaxSupply != uint64(100_000_000)*1_000_000_000 {
		t.Fatalf("账本默认最大供应量错误 got=%d", opts.MaxSupply)
	}
	if opts := p.GetUnit(); opts.InitialResonance != 100 {
		t.Fatalf("单元默认初始共鸣错误 got=%d", opts.InitialResonance)
	}
	if opts := p.GetGovernance(); opts.QuorumBps != 400 {
		t.Fatalf("治理默认法定人数错误 got=%d", opts.QuorumBps)
	}
	if opts := p.GetBadger(); opts.InMemory {
		t.Fatal("存储默认不应为内存模式")
	}
	if g := p.GetGenesis(); g != nil {
		t.Fatal("无配置时创世应为nil")
	}
}

func TestProvider_UserOverrides(t *testing.T) {
	env := "dev"
	maxSupply := uint64(1_000_000)
	inMemory := true

	p := NewProvider(&types.AppConfig{
		Environment: &env,
		Ledger:      &types.UserLedgerConfig{MaxSupply: &maxSupply},
		Storage:     &types.UserStorageConfig{InMemory: &inMemory},
	})

	if got := p.GetEnvironment(); got != "dev" {
		t.Fatalf("环境覆盖失败 got=%s", got)
	}
	if got := p.GetLedger().MaxSupply; got != maxSupply {
		t.Fatalf("最大供应量覆盖失败 got=%d", got)
	}
	if !p.GetBadger().InMemory {
		t.Fatal("内存模式覆盖失败")
	}
}

func TestProvider_InvalidEnvironmentFallsBack(t *testing.T) {
	env := "staging"
	p := NewProvider(&types.AppConfig{Environment: &env})
	if got := p.GetEnvironment(); got != "prod" {
		t.Fatalf("非法环境应回退prod got=%s", got)
	}
}

func TestLoadAppConfig(t *testing.T) {
	// 空路径：全默认值运行
	cfg, err := LoadAppConfig("")
	if err != nil || cfg != nil {
		t.Fatalf("空路径应返回(nil, nil) cfg=%v err=%v", cfg, err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"environment": "test",
		"ledger": {"max_supply": 5000000},
		"genesis": {
			"mint_authority": "4h3c6UPFTvBnFgj1t2kAqUcGKsYYwCUq",
			"accounts": [{"address": "4h3c6UPFTvBnFgj1t2kAqUcGKsYYwCUq", "balance": 1000, "units": 2}]
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadAppConfig(path)
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}
	if cfg.Environment == nil || *cfg.Environment != "test" {
		t.Fatal("environment未解析")
	}
	if cfg.Ledger == nil || cfg.Ledger.MaxSupply == nil || *cfg.Ledger.MaxSupply != 5000000 {
		t.Fatal("ledger.max_supply未解析")
	}
	if cfg.Genesis == nil || len(cfg.Genesis.Accounts) != 1 || cfg.Genesis.Accounts[0].Units != 2 {
		t.Fatal("genesis未解析")
	}

	if _, err := LoadAppConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("缺失文件应报错")
	}
}
