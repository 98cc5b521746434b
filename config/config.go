package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// OtpConfig selects an OTP delivery channel. Sender is one of
// "log", "sms", "mail". Params carries channel-specific settings
// (gateway url, api key, smtp host and so on).
type OtpConfig struct {
	Sender string                 `yaml:"sender" json:"sender"`
	TTL    int                    `yaml:"ttl" json:"ttl"`
	Params map[string]interface{} `yaml:"params" json:"params"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Otp      OtpConfig `yaml:"otp" json:"otp"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetUploadDir() string {
	return filepath.Join(c.System.Workdir, "uploads")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0755)
	_ = os.MkdirAll(c.GetDataDir(), 0755)
	_ = os.MkdirAll(c.GetUploadDir(), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "vendormart",
		Location: "Asia/Kolkata",
		Workdir:  "/var/vendormart",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		JwtSecret: "9b6bdeb8-vendormart-dev-secret",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "vendormart",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Otp: OtpConfig{
		Sender: "log",
		TTL:    300,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/vendormart/logs/vendormart.log",
	},
}

func setEnvValue(name string, val *string) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToBool(evalue)
	}
}

// LoadConfig reads the yaml config file when it exists, otherwise the
// defaults apply. Environment variables override file values last.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err == nil {
				fcfg := new(AppConfig)
				if err := yaml.Unmarshal(data, fcfg); err == nil {
					cfg = fcfg
				}
			}
		}
	}

	setEnvValue("VENDORMART_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("VENDORMART_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("VENDORMART_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("VENDORMART_WEB_PORT", &cfg.Web.Port)
	setEnvValue("VENDORMART_WEB_JWT_SECRET", &cfg.Web.JwtSecret)
	setEnvValue("VENDORMART_DB_TYPE", &cfg.Database.Type)
	setEnvValue("VENDORMART_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("VENDORMART_DB_PORT", &cfg.Database.Port)
	setEnvValue("VENDORMART_DB_NAME", &cfg.Database.Name)
	setEnvValue("VENDORMART_DB_USER", &cfg.Database.User)
	setEnvValue("VENDORMART_DB_PASSWD", &cfg.Database.Passwd)
	setEnvValue("VENDORMART_OTP_SENDER", &cfg.Otp.Sender)

	cfg.initDirs()
	return cfg
}
