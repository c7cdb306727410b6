package ssh

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	apperr "sshMenu/internal/error"
	"sshMenu/internal/models"
)

type portMap map[string]string

func (p portMap) Port(alias string) string { return p[alias] }

func newSigner(t *testing.T) (ssh.Signer, ed25519.PrivateKey) {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)
	return signer, priv
}

func writeIdentity(t *testing.T, priv ed25519.PrivateKey) string {
	t.Helper()

	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))
	return path
}

// startServer uruchamia serwer SSH akceptujący tylko klucz clientKey
func startServer(t *testing.T, hostKey ssh.Signer, clientKey ssh.PublicKey) string {
	t.Helper()

	cfg := &ssh.ServerConfig{
		PublicKeyCallback: func(conn ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if string(key.Marshal()) == string(clientKey.Marshal()) {
				return &ssh.Permissions{}, nil
			}
			return nil, assert.AnError
		},
	}
	cfg.AddHostKey(hostKey)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer c.Close()
				_, chans, reqs, err := ssh.NewServerConn(c, cfg)
				if err != nil {
					return
				}
				go ssh.DiscardRequests(reqs)
				for ch := range chans {
					_ = ch.Reject(ssh.Prohibited, "test server")
				}
			}()
		}
	}()

	return ln.Addr().String()
}

func writeKnownHosts(t *testing.T, addr string, key ssh.PublicKey) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), knownHostsFileName)
	line := knownhosts.Line([]string{knownhosts.Normalize(addr)}, key)
	require.NoError(t, os.WriteFile(path, []byte(line+"\n"), 0o600))
	return path
}

func testLauncher(port, knownHosts string) *NativeLauncher {
	l := NewNativeLauncher(portMap{"alpha": port})
	l.KnownHostsPath = knownHosts
	l.DialTimeout = 2 * time.Second
	l.agentSocket = func() string { return "" }
	return l
}

func TestNativeLauncherDial(t *testing.T) {
	t.Parallel()

	hostKey, _ := newSigner(t)
	clientSigner, clientPriv := newSigner(t)
	addr := startServer(t, hostKey, clientSigner.PublicKey())
	_, port, _ := net.SplitHostPort(addr)

	l := testLauncher(port, writeKnownHosts(t, addr, hostKey.PublicKey()))
	entry := &models.HostEntry{Alias: "alpha", Hostname: "127.0.0.1", Username: "ops", IdentityFile: writeIdentity(t, clientPriv)}

	client, err := l.Dial(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "ops", client.User())
	require.NoError(t, client.Close())
}

func TestNativeLauncherUnknownHostKey(t *testing.T) {
	t.Parallel()

	hostKey, _ := newSigner(t)
	otherKey, _ := newSigner(t)
	clientSigner, clientPriv := newSigner(t)
	addr := startServer(t, hostKey, clientSigner.PublicKey())
	_, port, _ := net.SplitHostPort(addr)

	l := testLauncher(port, writeKnownHosts(t, addr, otherKey.PublicKey()))
	entry := &models.HostEntry{Alias: "alpha", Hostname: "127.0.0.1", Username: "ops", IdentityFile: writeIdentity(t, clientPriv)}

	_, err := l.Dial(context.Background(), entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConnection)
	assert.Contains(t, err.Error(), "host key mismatch")
}

func TestNativeLauncherWrongClientKey(t *testing.T) {
	t.Parallel()

	hostKey, _ := newSigner(t)
	clientSigner, _ := newSigner(t)
	_, strangerPriv := newSigner(t)
	addr := startServer(t, hostKey, clientSigner.PublicKey())
	_, port, _ := net.SplitHostPort(addr)

	l := testLauncher(port, writeKnownHosts(t, addr, hostKey.PublicKey()))
	entry := &models.HostEntry{Alias: "alpha", Hostname: "127.0.0.1", Username: "ops", IdentityFile: writeIdentity(t, strangerPriv)}

	_, err := l.Dial(context.Background(), entry)
	assert.ErrorIs(t, err, apperr.ErrConnection)
}

func TestNativeLauncherNoAuthMethods(t *testing.T) {
	t.Parallel()

	l := testLauncher("22", filepath.Join(t.TempDir(), knownHostsFileName))
	entry := &models.HostEntry{Alias: "alpha", Hostname: "127.0.0.1", Username: "ops"}

	_, _, err := l.ClientConfig(entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConnection)
}

func TestNativeLauncherMissingKnownHosts(t *testing.T) {
	t.Parallel()

	_, clientPriv := newSigner(t)
	l := testLauncher("22", filepath.Join(t.TempDir(), "missing"))
	entry := &models.HostEntry{Alias: "alpha", Hostname: "127.0.0.1", Username: "ops", IdentityFile: writeIdentity(t, clientPriv)}

	_, _, err := l.ClientConfig(entry)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestNativeLauncherAddr(t *testing.T) {
	t.Parallel()

	l := NewNativeLauncher(portMap{"alpha": "2222"})
	assert.Equal(t, "10.0.0.1:2222", l.addr(&models.HostEntry{Alias: "alpha", Hostname: "10.0.0.1"}))
	assert.Equal(t, "beta:22", l.addr(&models.HostEntry{Alias: "beta", Hostname: "beta"}))
	assert.Equal(t, "[::1]:22", NewNativeLauncher(nil).addr(&models.HostEntry{Alias: "v6", Hostname: "::1"}))
}
