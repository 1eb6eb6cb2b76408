// Package keyring stores extracted profile key material. It uses the
// system keyring when available, falling back to an encrypted local
// file when not. Values are single base64 blobs keyed by profile id.
package keyring

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// serviceName is the identifier used in the system keyring.
	serviceName = "vpnetscape"

	localStoreName = ".keys"
	kdfIterations  = 4096
)

// Common errors returned by keyring operations.
var (
	ErrNotFound    = errors.New("key material not found")
	ErrUnavailable = errors.New("keyring service unavailable")
)

// Storage backend state.
var (
	useLocalStorage bool
	localStoreMu    sync.RWMutex
	localStore      map[string]string
	localStoreFile  string
	encryptionKey   []byte

	initOnce  sync.Once
	available bool
)

func initStorage() {
	// Probe the system keyring; an unusable keyring switches every
	// operation to the encrypted local store.
	testKey := "vpnetscape-test-init"
	if err := keyring.Set(serviceName, testKey, "test"); err == nil {
		keyring.Delete(serviceName, testKey)
		useLocalStorage = false
		available = true
		return
	}

	useLocalStorage = true
	available = initLocalStorage() == nil
}

func initLocalStorage() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(homeDir, ".config", "vpnetscape")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	localStoreFile = filepath.Join(configDir, localStoreName)

	// Derive the store key from machine-specific data so the file is
	// only readable on the machine that wrote it.
	hostname, _ := os.Hostname()
	seed := fmt.Sprintf("vpnetscape-%s-%s-%d", hostname, machineID(), os.Getuid())
	encryptionKey = pbkdf2.Key([]byte(seed), []byte(serviceName),
		kdfIterations, 32, sha256.New)

	localStore = make(map[string]string)
	loadLocalStore()
	return nil
}

func machineID() string {
	data, err := os.ReadFile("/etc/machine-id")
	if err == nil {
		return strings.TrimSpace(string(data))
	}
	return "default-machine-id"
}

func loadLocalStore() {
	data, err := os.ReadFile(localStoreFile)
	if err != nil {
		return
	}

	decrypted, err := decrypt(data)
	if err != nil {
		return
	}

	json.Unmarshal(decrypted, &localStore)
}

func saveLocalStore() error {
	localStoreMu.RLock()
	data, err := json.Marshal(localStore)
	localStoreMu.RUnlock()
	if err != nil {
		return err
	}

	encrypted, err := encrypt(data)
	if err != nil {
		return err
	}

	return os.WriteFile(localStoreFile, encrypted, 0600)
}

func encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return []byte(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

func decrypt(data []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// Available reports whether a secret store backend can be used on this
// platform. When false, profile key material stays inline in the
// configuration text.
func Available() bool {
	initOnce.Do(initStorage)
	return available
}

// Set replaces the key material blob stored for a profile.
func Set(profileID string, value string) error {
	if !Available() {
		return ErrUnavailable
	}
	if profileID == "" {
		return errors.New("profile id cannot be empty")
	}

	if useLocalStorage {
		localStoreMu.Lock()
		localStore[profileID] = value
		localStoreMu.Unlock()
		return saveLocalStore()
	}

	return keyring.Set(serviceName, profileID, value)
}

// Get retrieves the key material blob stored for a profile.
func Get(profileID string) (string, error) {
	if !Available() {
		return "", ErrUnavailable
	}
	if profileID == "" {
		return "", errors.New("profile id cannot be empty")
	}

	if useLocalStorage {
		localStoreMu.RLock()
		value, exists := localStore[profileID]
		localStoreMu.RUnlock()
		if !exists {
			return "", ErrNotFound
		}
		return value, nil
	}

	value, err := keyring.Get(serviceName, profileID)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Delete removes the key material stored for a profile. Removing an
// absent entry is not an error.
func Delete(profileID string) error {
	if !Available() {
		return ErrUnavailable
	}
	if profileID == "" {
		return errors.New("profile id cannot be empty")
	}

	if useLocalStorage {
		localStoreMu.Lock()
		delete(localStore, profileID)
		localStoreMu.Unlock()
		return saveLocalStore()
	}

	if err := keyring.Delete(serviceName, profileID); err != nil &&
		!errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
