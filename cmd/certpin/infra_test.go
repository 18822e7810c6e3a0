// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testServer is a local TLS server with a three-tier chain (root ->
// intermediate -> leaf), so all three pinned positions can be exercised.
type testServer struct {
	host   string
	port   int
	caFile string
}

// startPinnedServer builds a three-tier PKI, starts a TLS server presenting
// leaf+intermediate, and writes the root to a CA file for --ca-file.
func startPinnedServer(t *testing.T) *testServer {
	t.Helper()

	newCA := func(serial int64, cn string, parent *x509.Certificate, parentKey *ecdsa.PrivateKey, maxPathLen int) (*x509.Certificate, []byte, *ecdsa.PrivateKey) {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		template := &x509.Certificate{
			SerialNumber: big.NewInt(serial),
			Subject: pkix.Name{
				CommonName:   cn,
				Organization: []string{"Test Org"},
			},
			NotBefore:             time.Now().Add(-1 * time.Hour),
			NotAfter:              time.Now().Add(24 * time.Hour),
			KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
			BasicConstraintsValid: true,
			IsCA:                  true,
			MaxPathLen:            maxPathLen,
			MaxPathLenZero:        maxPathLen == 0,
		}

		signer := template
		signerKey := key
		if parent != nil {
			signer = parent
			signerKey = parentKey
		}

		der, err := x509.CreateCertificate(rand.Reader, template, signer, &key.PublicKey, signerKey)
		require.NoError(t, err)

		cert, err := x509.ParseCertificate(der)
		require.NoError(t, err)

		return cert, der, key
	}

	rootCert, rootDER, rootKey := newCA(1, "Test Root CA", nil, nil, 1)
	intCert, intDER, intKey := newCA(2, "Test Intermediate CA", rootCert, rootKey, 0)

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	leafTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(3),
		Subject: pkix.Name{
			CommonName:   "127.0.0.1",
			Organization: []string{"Test Org"},
		},
		NotBefore:   time.Now().Add(-1 * time.Hour),
		NotAfter:    time.Now().Add(24 * time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses: []net.IP{net.IPv4(127, 0, 0, 1)},
	}

	leafDER, err := x509.CreateCertificate(rand.Reader, leafTemplate, intCert, &leafKey.PublicKey, intKey)
	require.NoError(t, err)

	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		MinVersion: tls.VersionTLS12,
		Certificates: []tls.Certificate{{
			Certificate: [][]byte{leafDER, intDER},
			PrivateKey:  leafKey,
		}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, acceptErr := ln.Accept()
			if acceptErr != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				if tlsConn, ok := c.(*tls.Conn); ok {
					if tlsConn.Handshake() != nil {
						return
					}
				}
				buf := make([]byte, 1)
				c.Read(buf)
			}(conn)
		}
	}()

	rootPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: rootDER})
	caFile := filepath.Join(t.TempDir(), "root.pem")
	require.NoError(t, os.WriteFile(caFile, rootPEM, 0600))

	return &testServer{
		host:   "127.0.0.1",
		port:   ln.Addr().(*net.TCPAddr).Port,
		caFile: caFile,
	}
}

// closedPort returns a port nothing is listening on.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

// captureOutput redirects writeOutput to a temp file for the duration of a
// test and returns a reader for what was written.
func captureOutput(t *testing.T) func() []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "output")
	old := outputFile
	outputFile = path
	t.Cleanup(func() { outputFile = old })

	return func() []byte {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}
}
