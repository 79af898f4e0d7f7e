package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"time"

	"github.com/samber/do"
)

// IssuedCertificate is the result of signing a device certificate. The serial
// number is the value later published on the CRL if the device is revoked.
type IssuedCertificate struct {
	SerialNumber   string
	NotBefore      time.Time
	NotAfter       time.Time
	CertificatePEM []byte
}

// CertificateAuthority signs X.509 device certificates. Kept narrow so the
// trust manager can be tested with a fake and real key management stays
// swappable.
type CertificateAuthority interface {
	IssueCertificate(commonName string, validity time.Duration) (*IssuedCertificate, error)
}

// LocalCertificateAuthority holds an in-process RSA root. Key material never
// leaves the process; hardware-backed signing is out of scope.
type LocalCertificateAuthority struct {
	caKey  *rsa.PrivateKey
	caCert *x509.Certificate
}

const deviceKeyBits = 2048

func NewLocalCertificateAuthority() (*LocalCertificateAuthority, error) {
	caKey, err := rsa.GenerateKey(rand.Reader, deviceKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generating CA key: %w", err)
	}
	serial, err := randomSerial()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   "Secure Sync Device CA",
			Organization: []string{"Oakridge SIS"},
		},
		NotBefore:             now,
		NotAfter:              now.AddDate(10, 0, 0),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &caKey.PublicKey, caKey)
	if err != nil {
		return nil, fmt.Errorf("self-signing CA certificate: %w", err)
	}
	caCert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("parsing CA certificate: %w", err)
	}
	return &LocalCertificateAuthority{caKey: caKey, caCert: caCert}, nil
}

func NewCertificateAuthorityService(i *do.Injector) (CertificateAuthority, error) {
	return NewLocalCertificateAuthority()
}

func (ca *LocalCertificateAuthority) IssueCertificate(commonName string, validity time.Duration) (*IssuedCertificate, error) {
	deviceKey, err := rsa.GenerateKey(rand.Reader, deviceKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generating device key: %w", err)
	}
	serial, err := randomSerial()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   commonName,
			Organization: []string{"Oakridge SIS"},
		},
		NotBefore:   now,
		NotAfter:    now.Add(validity),
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, ca.caCert, &deviceKey.PublicKey, ca.caKey)
	if err != nil {
		return nil, fmt.Errorf("signing device certificate: %w", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return &IssuedCertificate{
		SerialNumber:   serial.Text(16),
		NotBefore:      now,
		NotAfter:       template.NotAfter,
		CertificatePEM: certPEM,
	}, nil
}

func randomSerial() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, fmt.Errorf("generating certificate serial: %w", err)
	}
	return serial, nil
}
