package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("http_port", "HTTP_PORT")
		viper.BindEnv("check_interval", "CHECK_INTERVAL")
		viper.BindEnv("quote_timeout", "QUOTE_TIMEOUT")
		viper.BindEnv("push_timeout", "PUSH_TIMEOUT")
		viper.BindEnv("kraken_api_url", "KRAKEN_API_URL")
		viper.BindEnv("api_pro_key", "API_PRO_KEY")
		viper.BindEnv("fcm_api_url", "FCM_API_URL")
		viper.BindEnv("fcm_server_key", "FCM_SERVER_KEY")
		viper.BindEnv("apns_key_path", "APNS_KEY_PATH")
		viper.BindEnv("apns_key_id", "APNS_KEY_ID")
		viper.BindEnv("apns_team_id", "APNS_TEAM_ID")
		viper.BindEnv("apns_topic", "APNS_TOPIC")
		viper.BindEnv("apns_production", "APNS_PRODUCTION")

		viper.SetDefault("db_path", "/app/data/alerting.db")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("http_port", 8080)
		viper.SetDefault("check_interval", time.Minute)
		viper.SetDefault("quote_timeout", 10*time.Second)
		viper.SetDefault("push_timeout", 10*time.Second)
		viper.SetDefault("kraken_api_url", "https://api.kraken.com/0/public")
		viper.SetDefault("fcm_api_url", "https://fcm.googleapis.com/fcm/send")
		viper.SetDefault("apns_production", false)
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}

func GetDuration(key string) time.Duration {
	InitConfig()
	return viper.GetDuration(key)
}
