// keys genera el material de claves que el servicio exige al arranque.
//
//	go run ./cmd/keys            # imprime las cinco variables listas para .env
//	go run ./cmd/keys -only enc  # sólo SERVER_ENCRYPTION_KEY
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/dropDatabas3/tgsecret/internal/security/cryptobox"
)

func main() {
	var only = flag.String("only", "", "enc | jwt | refresh | webhook (vacío = todas)")
	flag.Parse()

	gen := func(n int) string {
		s, err := cryptobox.RandomHex(n)
		if err != nil {
			log.Fatalf("keys: %v", err)
		}
		return s
	}

	switch *only {
	case "enc":
		fmt.Printf("SERVER_ENCRYPTION_KEY=%s\n", gen(32))
	case "jwt":
		fmt.Printf("JWT_SECRET=%s\n", gen(48))
	case "refresh":
		fmt.Printf("JWT_REFRESH_SECRET=%s\n", gen(48))
	case "webhook":
		fmt.Printf("USERBOT_WEBHOOK_SECRET=%s\n", gen(32))
	case "":
		fmt.Printf("SERVER_ENCRYPTION_KEY=%s\n", gen(32))
		fmt.Printf("JWT_SECRET=%s\n", gen(48))
		fmt.Printf("JWT_REFRESH_SECRET=%s\n", gen(48))
		fmt.Printf("USERBOT_WEBHOOK_SECRET=%s\n", gen(32))
	default:
		log.Fatalf("keys: -only desconocido: %q", *only)
	}
}
