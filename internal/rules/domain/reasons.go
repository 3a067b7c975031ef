package domain

import "Skirmish/modules/kit/errx"

var newReason = errx.NewReason

// 规则拒绝原因。
var (
	ReasonGameEnded         = newReason("GAME_ENDED", "对局已结束")
	ReasonNotActivePlayer   = newReason("NOT_ACTIVE_PLAYER", "不是当前行动玩家")
	ReasonNotPriority       = newReason("NOT_PRIORITY_HOLDER", "当前没有响应优先权")
	ReasonWindowOpen        = newReason("RESPONSE_WINDOW_OPEN", "响应窗口未关闭")
	ReasonNoWindow          = newReason("NO_RESPONSE_WINDOW", "没有等待中的响应窗口")
	ReasonWrongPhase        = newReason("WRONG_PHASE", "当前阶段不允许该动作")
	ReasonStackNotEmpty     = newReason("STACK_NOT_EMPTY", "结算栈未清空")
	ReasonSpeedLocked       = newReason("SPEED_LOCKED", "速度锁定")
	ReasonCardNotInHand     = newReason("CARD_NOT_IN_HAND", "卡牌不在手牌中")
	ReasonCardNotPlayable   = newReason("CARD_NOT_PLAYABLE", "该卡牌不能直接打出")
	ReasonSummonLimit       = newReason("SUMMON_LIMIT", "本回合已召唤过")
	ReasonPositionInvalid   = newReason("POSITION_INVALID", "坐标不在棋盘上")
	ReasonPositionOccupied  = newReason("POSITION_OCCUPIED", "坐标已被占用")
	ReasonNotOwnTerritory   = newReason("NOT_OWN_TERRITORY", "只能召唤到己方领地")
	ReasonNotWalkable       = newReason("NOT_WALKABLE", "目标格不可通行")
	ReasonBlocked           = newReason("BLOCKED", "目标格有阻挡建筑")
	ReasonNoMovement        = newReason("INSUFFICIENT_MOVEMENT", "剩余移动力不足")
	ReasonOutOfRange        = newReason("OUT_OF_RANGE", "目标超出射程")
	ReasonNoAttacks         = newReason("NO_ATTACKS_LEFT", "本回合攻击次数已用完")
	ReasonNotOwnUnit        = newReason("NOT_OWN_UNIT", "不是己方单位")
	ReasonNotEnemyUnit      = newReason("NOT_ENEMY_UNIT", "不是敌方单位")
	ReasonTargetInvalid     = newReason("TARGET_INVALID", "目标不合法")
	ReasonRequirementUnmet  = newReason("REQUIREMENT_UNMET", "打出条件不满足")
	ReasonCostUnpayable     = newReason("COST_UNPAYABLE", "充能区卡牌不足以支付费用")
	ReasonTargetFullHP      = newReason("TARGET_AT_FULL_HP", "目标生命值已满")
	ReasonLevelCap          = newReason("LEVEL_AT_CAP", "单位已达等级上限")
	ReasonRoleMismatch      = newReason("ROLE_MISMATCH", "职业进阶路线不匹配")
	ReasonInvalidParams     = newReason("INVALID_PARAMS", "动作参数不完整")
	ReasonUnknownAction     = newReason("UNKNOWN_ACTION", "未知动作类型")
	ReasonUnknownEffect     = newReason("UNKNOWN_EFFECT", "未知效果类型")
	ReasonCardNotFound      = newReason("CARD_NOT_FOUND", "卡牌不存在")
	ReasonUnitNotFound      = newReason("UNIT_NOT_FOUND", "单位不存在")
	ReasonPlayerNotFound    = newReason("PLAYER_NOT_FOUND", "玩家不存在")
	ReasonDuplicateRegister = newReason("DUPLICATE_REGISTER", "重复注册")
)
