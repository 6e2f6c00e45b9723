package config

type Config struct {
	SuccessRate float64
	Seed        int64
	GatewayAddr string // если задан, вместо симулятора используется внешний шлюз
}
