package util

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hpkv-io/rioc-go/rioc/common"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupClientFlags adds the connection flag set to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "host"
	cmd.PersistentFlags().String(key, "localhost", WrapString("The hostname of the rioc server"))

	key = "port"
	cmd.PersistentFlags().Int(key, 8000, WrapString("The port of the rioc server"))

	key = "timeout"
	cmd.PersistentFlags().Uint32(key, 5000, WrapString("Timeout in milliseconds for connecting and for batch waits (0 waits forever). Single operations do not time out"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("Log level (debug, info, warn, error)"))

	key = "tls-ca"
	cmd.PersistentFlags().String(key, "", WrapString("Path to the CA certificate used to verify the server. Enables TLS"))

	key = "tls-cert"
	cmd.PersistentFlags().String(key, "", WrapString("Path to the client certificate for mutual TLS. Enables TLS"))

	key = "tls-key"
	cmd.PersistentFlags().String(key, "", WrapString("Path to the client private key for mutual TLS"))

	key = "tls-hostname"
	cmd.PersistentFlags().String(key, "", WrapString("Hostname to verify against the server certificate instead of --host"))

	key = "tls-no-verify"
	cmd.PersistentFlags().Bool(key, false, WrapString("Accept the server certificate without verification. Enables TLS"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("rioc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds the flags of a command to viper
func BindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return viper.BindPFlags(cmd.PersistentFlags())
}

// GetClientConfig reads the client configuration from viper
func GetClientConfig() common.ClientConfig {
	conf := common.ClientConfig{
		Host:      viper.GetString("host"),
		Port:      viper.GetInt("port"),
		TimeoutMs: viper.GetUint32("timeout"),
	}

	// --tls-ca, --tls-cert or --tls-no-verify switches the session to TLS;
	// --tls-key and --tls-hostname alone do not
	if viper.GetString("tls-ca") != "" || viper.GetString("tls-cert") != "" || viper.GetBool("tls-no-verify") {
		conf.TLS = &common.TLSConfig{
			CAPath:         viper.GetString("tls-ca"),
			CertPath:       viper.GetString("tls-cert"),
			KeyPath:        viper.GetString("tls-key"),
			VerifyHostname: viper.GetString("tls-hostname"),
			VerifyPeer:     !viper.GetBool("tls-no-verify"),
		}
	}

	return conf
}

// GetLogLevel reads the log level from viper
func GetLogLevel() string {
	return viper.GetString("log-level")
}
