// models/settings.go
package models

// AppSettings holds the reward amounts and limits that govern earnings and
// settlement. Stored as a single document in the "settings" collection;
// DefaultSettings applies when the document is absent.
type AppSettings struct {
	VideoReward          int64 `json:"videoReward" bson:"videoReward"`
	FormReward           int64 `json:"formReward" bson:"formReward"`
	GmailReward          int64 `json:"gmailReward" bson:"gmailReward"`
	ReferralBonus        int64 `json:"referralBonus" bson:"referralBonus"`
	ReferralJoiningBonus int64 `json:"referralJoiningBonus" bson:"referralJoiningBonus"`
	MinWithdraw          int64 `json:"minWithdraw" bson:"minWithdraw"`
	MinRecharge          int64 `json:"minRecharge" bson:"minRecharge"`
	RechargeBonusAmount  int64 `json:"rechargeBonusAmount" bson:"rechargeBonusAmount"`
	RechargeBonus        int64 `json:"rechargeBonus" bson:"rechargeBonus"`
	ActivationFloor      int64 `json:"activationFloor" bson:"activationFloor"`
	MaxDailyVideos       int64 `json:"maxDailyVideos" bson:"maxDailyVideos"`
	MaxDailyForms        int64 `json:"maxDailyForms" bson:"maxDailyForms"`
}

// DefaultSettings returns the launch reward values.
func DefaultSettings() AppSettings {
	return AppSettings{
		VideoReward:          5,
		FormReward:           2,
		GmailReward:          9,
		ReferralBonus:        50,
		ReferralJoiningBonus: 100,
		MinWithdraw:          500,
		MinRecharge:          50,
		RechargeBonusAmount:  100,
		RechargeBonus:        10,
		ActivationFloor:      100,
		MaxDailyVideos:       5,
		MaxDailyForms:        7,
	}
}
