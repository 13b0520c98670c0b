package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

type Application struct {
	Host      string    `koanf:"host"`
	Server    Server    `koanf:"server"`
	Database  Database  `koanf:"db"`
	Auth      Auth      `koanf:"auth"`
	RapidApi  RapidApi  `koanf:"rapidapi"`
	Footprint Footprint `koanf:"footprint"`
	Mqtt      Mqtt      `koanf:"mqtt"`
	Storage   Storage   `koanf:"storage"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Auth struct {
	JwtSecret string        `koanf:"jwtsecret"`
	TokenTTL  time.Duration `koanf:"tokenttl"`
}

// RapidApi holds the key shared by all emission factor APIs and their base URLs.
// Base URLs are configurable so tests and self-hosted mirrors can replace them.
type RapidApi struct {
	Key              string `koanf:"key"`
	CarbonFootprint  string `koanf:"carbonfootprint"`
	Foodprint        string `koanf:"foodprint"`
	CarbonSutra      string `koanf:"carbonsutra"`
	CarbonSutraToken string `koanf:"carbonsutratoken"`
	CleanEnergy      string `koanf:"cleanenergy"`
	AtmosphereCO2    string `koanf:"atmosphereco2"`
	TimeoutSeconds   int    `koanf:"timeoutseconds"`
}

type Footprint struct {
	WeekLimitKg float64 `koanf:"weeklimitkg"`
}

type Mqtt struct {
	Enabled     bool   `koanf:"enabled"`
	Broker      string `koanf:"broker"`
	Username    string `koanf:"username"`
	Password    string `koanf:"password"`
	TopicPrefix string `koanf:"topicprefix"`
}

type Storage struct {
	Type      string `koanf:"type"`
	LocalPath string `koanf:"localpath"`
	S3        S3     `koanf:"s3"`
}

type S3 struct {
	Endpoint      string `koanf:"endpoint"`
	Region        string `koanf:"region"`
	Bucket        string `koanf:"bucket"`
	AccessKey     string `koanf:"accesskey"`
	SecretKey     string `koanf:"secretkey"`
	PublicBaseUrl string `koanf:"publicbaseurl"`
}

func defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Server: Server{
			Addr: ":8181",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "co2tracker",
			Pass:   "",
			Name:   "co2tracker",
			Schema: "co2tracker",
		},
		Auth: Auth{
			TokenTTL: 24 * time.Hour,
		},
		RapidApi: RapidApi{
			CarbonFootprint: "https://carbonfootprint1.p.rapidapi.com",
			Foodprint:       "https://foodprint.p.rapidapi.com",
			CarbonSutra:     "https://carbonsutra1.p.rapidapi.com",
			CleanEnergy:     "https://tracker-for-carbon-footprint-api.p.rapidapi.com",
			AtmosphereCO2:   "https://daily-atmosphere-carbon-dioxide-concentration.p.rapidapi.com",
			TimeoutSeconds:  15,
		},
		Footprint: Footprint{
			WeekLimitKg: 800,
		},
		Mqtt: Mqtt{
			TopicPrefix: "co2tracker",
		},
		Storage: Storage{
			Type:      "local",
			LocalPath: "storage/user_photos",
			S3: S3{
				Region: "auto",
			},
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CO2TRACKER_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CO2TRACKER_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
