package config

// Defaults for a lab run against a fresh account.
const (
	DefaultAMI          = "ami-07ff62358b87c7116" // Amazon Linux
	DefaultInstanceType = "t3.micro"
	DefaultInstanceName = "test-instance"
	DefaultSSHUser      = "ec2-user"

	DefaultBucket   = "gestion-practicas-bucket"
	DefaultFolder   = "gestion/"
	DefaultDatabase = "gestion_practicas_db"
	DefaultCSVTable = "estudiantes_practicas"
)

// Environment variables read by ApplyEnv.
const (
	EnvAccessKey    = "ACCESS_KEY"
	EnvSecretKey    = "SECRET_KEY"
	EnvSessionToken = "SESSION_TOKEN"
	EnvRegion       = "REGION"
	EnvEndpoint     = "AWS_ENDPOINT_URL"
	EnvPEMName      = "PEM_NAME"
	EnvPEMFile      = "PEM_FILE"
	EnvInstanceID   = "INSTANCE_ID"
	EnvInstanceIP   = "INSTANCE_IP"
)
