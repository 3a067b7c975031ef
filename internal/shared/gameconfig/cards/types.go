package cards

// 卡牌文件的原始结构。viper 读入后按 mapstructure 标签解码，
// 效果和条件的 params 按 type 再解码一次。
// 注意 viper 的键不区分大小写，统一按小写处理。

type cardFile struct {
	Cards []rawCard `mapstructure:"cards"`
}

type rawCard struct {
	ID        string        `mapstructure:"id"`
	Name      string        `mapstructure:"name"`
	Kind      string        `mapstructure:"kind"`
	Summon    *rawSummon    `mapstructure:"summon"`
	Template  *rawTemplate  `mapstructure:"template"`
	Role      *rawRole      `mapstructure:"role"`
	Equipment *rawEquipment `mapstructure:"equipment"`
	Play      *rawPlay      `mapstructure:"play"`
}

type rawSummon struct {
	Template    string            `mapstructure:"template"`
	Species     string            `mapstructure:"species"`
	Owner       string            `mapstructure:"owner"`
	BaseStats   map[string]int    `mapstructure:"base_stats"`
	Growth      map[string]string `mapstructure:"growth"`
	DefaultRole string            `mapstructure:"default_role"`
}

type rawTemplate struct {
	Species    string            `mapstructure:"species"`
	Growth     map[string]string `mapstructure:"growth"`
	StatRanges map[string][]int  `mapstructure:"stat_ranges"`
}

type rawRole struct {
	Family    string             `mapstructure:"family"`
	Tier      int                `mapstructure:"tier"`
	Parent    string             `mapstructure:"parent"`
	Modifiers map[string]float64 `mapstructure:"modifiers"`
}

type rawEquipment struct {
	Slot       string             `mapstructure:"slot"`
	Bonuses    map[string]float64 `mapstructure:"bonuses"`
	Power      int                `mapstructure:"power"`
	Range      int                `mapstructure:"range"`
	DamageStat string             `mapstructure:"damage_stat"`
}

type rawPlay struct {
	Speed        string           `mapstructure:"speed"`
	Destination  string           `mapstructure:"destination"`
	Requirements []rawRequirement `mapstructure:"requirements"`
	Effects      []rawEffect      `mapstructure:"effects"`
	Triggers     []rawTrigger     `mapstructure:"triggers"`
}

type rawRequirement struct {
	Type   string         `mapstructure:"type"`
	Params map[string]any `mapstructure:"params"`
}

type rawEffect struct {
	Type    string         `mapstructure:"type"`
	Params  map[string]any `mapstructure:"params"`
	Targets []rawTarget    `mapstructure:"targets"`
}

type rawTarget struct {
	Kind       string `mapstructure:"kind"`
	Controller string `mapstructure:"controller"`
	Zone       string `mapstructure:"zone"`
	RoleFamily string `mapstructure:"role_family"`
	MinLevel   int    `mapstructure:"min_level"`
	Range      int    `mapstructure:"range"`
}

type rawTrigger struct {
	On         string      `mapstructure:"on"`
	Controller string      `mapstructure:"controller"`
	Phase      string      `mapstructure:"phase"`
	TargetKey  string      `mapstructure:"target_key"`
	Effects    []rawEffect `mapstructure:"effects"`
}
