package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Setup runs the first-time interactive configuration: it prompts for API
// credentials and customer details on in, validates them, and saves the
// user config file. The caller normally passes os.Stdin.
func Setup(in io.Reader) (*Config, error) {
	reader := bufio.NewReader(in)

	fmt.Println("First time setup - Please enter your Walgreens API credentials:")
	apiKey := promptLine(reader, "API Key")
	affiliateID := promptLine(reader, "Affiliate ID")

	fmt.Println()
	fmt.Println("Enter your personal information for print orders:")
	firstName := promptLine(reader, "First Name")
	lastName := promptLine(reader, "Last Name")
	phone := promptLine(reader, "Phone Number")
	email := promptLine(reader, "Email")

	cfg := &Config{
		APIKey:      apiKey,
		AffiliateID: affiliateID,
		Customer: Customer{
			FirstName: firstName,
			LastName:  lastName,
			Phone:     phone,
			Email:     email,
		},
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(); err != nil {
		return nil, err
	}

	path, err := userConfigPath()
	if err == nil {
		cfg.Source = path
		fmt.Printf("Configuration saved to %s\n", path)
	}

	return cfg, nil
}

// promptLine prints a label and reads one trimmed line of input.
func promptLine(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		log.Warn().Err(err).Str("field", label).Msg("Failed to read input")
		return ""
	}

	return strings.TrimSpace(input)
}
