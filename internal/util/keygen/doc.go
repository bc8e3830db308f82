// Package keygen creates and loads the RSA key pairs used to reach lab
// instances over SSH. Public keys are rendered in OpenSSH authorized_keys
// format, which is what EC2 ImportKeyPair accepts.
package keygen
