package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"

	"github.com/quillpress/api-backend/internal/config"
	"github.com/quillpress/api-backend/internal/crypto"
)

// sessionSecretBytes is the amount of random data behind SESSION_SECRET
const sessionSecretBytes = 48

func main() {
	password := flag.String("password", "", "print a bcrypt hash of this password for seeding an admin row")
	flag.Parse()

	fmt.Println("Quillpress - Key Generator")
	fmt.Println("==========================")
	fmt.Println()

	if *password != "" {
		hash, err := crypto.HashPassword(*password)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		fmt.Println("Store this value in admin_users.password:")
		fmt.Println("-----------------------------------------")
		fmt.Println(hash)
		fmt.Println()
		return
	}

	raw := make([]byte, sessionSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		log.Fatalf("Failed to generate session secret: %v", err)
	}
	secret := base64.StdEncoding.EncodeToString(raw)
	if len(secret) < config.MinSessionSecretLength {
		log.Fatalf("Generated secret is shorter than %d bytes", config.MinSessionSecretLength)
	}

	fmt.Println("Successfully generated session secret!")
	fmt.Println()
	fmt.Println("Add this to your .env file:")
	fmt.Println("----------------------------")
	fmt.Printf("SESSION_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("SECURITY WARNING:")
	fmt.Println("   - Keep this secret out of version control")
	fmt.Println("   - Rotating it signs every admin out")
	fmt.Println("   - Use different secrets for development/staging/production")
	fmt.Println()
}
