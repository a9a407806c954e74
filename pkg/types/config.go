package types

// ================================================================================================
// ⚙️ 用户配置类型
// ================================================================================================
//
// 🔧 零值陷阱处理：用户配置字段统一使用指针类型区分"未设置"和"显式设置为零值"：
// - nil: 用户未设置，使用系统默认值
// - &value: 用户显式设置（即使是0/false/""也会被采用）

// AppConfig 应用统一配置结构（JSON配置文件的根）
type AppConfig struct {
	Environment *string               `json:"environment,omitempty"` // dev | test | prod
	Log         *UserLogConfig        `json:"log,omitempty"`
	Storage     *UserStorageConfig    `json:"storage,omitempty"`
	Ledger      *UserLedgerConfig     `json:"ledger,omitempty"`
	Unit        *UserUnitConfig       `json:"unit,omitempty"`
	Governance  *UserGovernanceConfig `json:"governance,omitempty"`
	Genesis     *GenesisConfig        `json:"genesis,omitempty"`
}

// UserLogConfig 日志用户配置
type UserLogConfig struct {
	Level      *string `json:"level,omitempty"`       // debug | info | warn | error
	FilePath   *string `json:"file_path,omitempty"`   // 日志文件路径（空表示仅控制台）
	MaxSizeMB  *int    `json:"max_size_mb,omitempty"` // 单文件上限（MB）
	MaxBackups *int    `json:"max_backups,omitempty"` // 保留文件数
	MaxAgeDays *int    `json:"max_age_days,omitempty"`
	Console    *bool   `json:"console,omitempty"` // 是否输出到控制台
}

// UserStorageConfig 存储用户配置
type UserStorageConfig struct {
	DataPath  *string `json:"data_path,omitempty"`  // BadgerDB数据目录
	InMemory  *bool   `json:"in_memory,omitempty"`  // 纯内存模式（测试用）
	SyncWrite *bool   `json:"sync_write,omitempty"` // 同步写盘
}

// UserLedgerConfig 账本用户配置
type UserLedgerConfig struct {
	MaxSupply *uint64 `json:"max_supply,omitempty"` // 同质代币最大供应量（wei）
}

// UserUnitConfig 单元状态机用户配置
type UserUnitConfig struct {
	MaxResonance     *uint64 `json:"max_resonance,omitempty"`      // 共鸣值上限
	InitialResonance *uint64 `json:"initial_resonance,omitempty"`  // 铸造初始共鸣值
	DecayRatePerDay  *uint64 `json:"decay_rate_per_day,omitempty"` // 闲置衰减速率（共鸣值/天）
	UnlinkPenaltyBps *uint32 `json:"unlink_penalty_bps,omitempty"` // 退相干惩罚（基点）
	RewardRateBps    *uint32 `json:"reward_rate_bps,omitempty"`    // 质押奖励比例（基点）
	EvolveThreshold  *uint64 `json:"evolve_threshold,omitempty"`   // 阶段0进化阈值（逐阶段线性上升）
}

// UserGovernanceConfig 治理用户配置
type UserGovernanceConfig struct {
	VotingPeriodSeconds *int64  `json:"voting_period_seconds,omitempty"` // 投票窗口（秒）
	QuorumBps           *uint32 `json:"quorum_bps,omitempty"`            // 法定人数（快照权重的基点）
	MinProposalWeight   *uint64 `json:"min_proposal_weight,omitempty"`   // 最小提案权重
	VoteWeighting       *string `json:"vote_weighting,omitempty"`        // linear | quadratic
}

// GenesisAccount 创世账户
type GenesisAccount struct {
	Address string `json:"address"`         // Base58地址
	Balance uint64 `json:"balance"`         // 初始同质余额（wei）
	Units   uint32 `json:"units,omitempty"` // 初始铸造单元数
}

// GenesisConfig 创世配置
//
// 初始参数在构造时一次性注入；此后参数仅能通过治理执行路径变更，
// 保证配置变更的审计轨迹完整。
type GenesisConfig struct {
	MintAuthority  string           `json:"mint_authority"`  // 铸造权限地址（Base58）
	AdminAuthority string           `json:"admin_authority"` // 规则管理权限地址（Base58）
	Accounts       []GenesisAccount `json:"accounts,omitempty"`
}
