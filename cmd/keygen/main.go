package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"golang.org/x/crypto/chacha20poly1305"
)

// A simple tool to generate the hex-encoded credential sealing key.
// Usage: go run ./cmd/keygen
func main() {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate key: %v", err)
	}

	fmt.Println(hex.EncodeToString(key))
}
