package cqlstore_test

import (
	"crypto/rand"
	"io"
	"testing"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/lstoll/cqlstore"
	"github.com/lstoll/cqlstore/storetest"
)

func TestStoreCompliance_MemConn(t *testing.T) {
	store, err := cqlstore.New(cqlstore.Config{Conn: cqlstore.NewMemConn()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	storetest.Run(t, store, nil)
}

func TestStoreCompliance_Sealed(t *testing.T) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		t.Fatalf("generating key: %v", err)
	}
	aead, err := cqlstore.NewXChaPolyAEAD(key, nil)
	if err != nil {
		t.Fatalf("NewXChaPolyAEAD() error = %v", err)
	}

	store, err := cqlstore.New(cqlstore.Config{
		Conn: cqlstore.NewMemConn(),
		AEAD: aead,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	storetest.Run(t, store, nil)
}

func TestStoreCompliance_Development(t *testing.T) {
	store, err := cqlstore.New(cqlstore.Config{
		Conn:        cqlstore.NewMemConn(),
		Development: true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	storetest.Run(t, store, nil)
}
