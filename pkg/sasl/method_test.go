package sasl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMethodCodes(t *testing.T) {
	tests := []struct {
		method AuthMethod
		code   byte
	}{
		{AuthSimple, 80},
		{AuthKerberos, 81},
		{AuthDigest, 82},
		{AuthToken, 82},
		{AuthPlain, 83},
	}

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.method.Code())
			assert.True(t, tt.method.Valid())
		})
	}
}

func TestDecodeAuthMethod(t *testing.T) {
	t.Run("assigned codes", func(t *testing.T) {
		tests := []struct {
			code   byte
			method AuthMethod
		}{
			{80, AuthSimple},
			{81, AuthKerberos},
			{82, AuthDigest}, // shared code: the deprecated alias wins
			{83, AuthPlain},
		}
		for _, tt := range tests {
			m, ok := DecodeAuthMethod(tt.code)
			require.True(t, ok, "code %d should decode", tt.code)
			assert.Equal(t, tt.method, m)
		}
	})

	t.Run("unassigned codes", func(t *testing.T) {
		for _, code := range []byte{0, 79, 84, 255} {
			_, ok := DecodeAuthMethod(code)
			assert.False(t, ok, "code %d should not decode", code)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		for _, method := range []AuthMethod{AuthSimple, AuthKerberos, AuthDigest, AuthPlain} {
			decoded, ok := DecodeAuthMethod(method.Code())
			require.True(t, ok)
			assert.Equal(t, method, decoded)
		}

		// TOKEN shares its code with the deprecated alias, so it decodes to
		// DIGEST. Both resolve the same mechanism.
		decoded, ok := DecodeAuthMethod(AuthToken.Code())
		require.True(t, ok)
		assert.Equal(t, AuthDigest, decoded)
		assert.Equal(t, AuthToken.MechanismName(), decoded.MechanismName())
	})
}

func TestAuthMethodMechanismName(t *testing.T) {
	assert.Equal(t, "", AuthSimple.MechanismName())
	assert.Equal(t, "GSSAPI", AuthKerberos.MechanismName())
	assert.Equal(t, "PLAIN", AuthPlain.MechanismName())
	assert.Equal(t, DefaultTokenMechanism, AuthToken.MechanismName())
	assert.Equal(t, DefaultTokenMechanism, AuthDigest.MechanismName())
}

func TestAuthMethodString(t *testing.T) {
	assert.Equal(t, "SIMPLE", AuthSimple.String())
	assert.Equal(t, "KERBEROS", AuthKerberos.String())
	assert.Equal(t, "DIGEST", AuthDigest.String())
	assert.Equal(t, "TOKEN", AuthToken.String())
	assert.Equal(t, "PLAIN", AuthPlain.String())
	assert.Equal(t, "AuthMethod(42)", AuthMethod(42).String())
	assert.False(t, AuthMethod(42).Valid())
}

func TestReadWriteAuthMethod(t *testing.T) {
	t.Run("write then read", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, AuthKerberos.WriteTo(&buf))
		assert.Equal(t, []byte{81}, buf.Bytes())

		m, err := ReadAuthMethod(&buf)
		require.NoError(t, err)
		assert.Equal(t, AuthKerberos, m)
	})

	t.Run("unknown code is a protocol error", func(t *testing.T) {
		_, err := ReadAuthMethod(bytes.NewReader([]byte{0x01}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown auth method code 1")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadAuthMethod(bytes.NewReader(nil))
		require.Error(t, err)
	})
}

func TestQOPToken(t *testing.T) {
	assert.Equal(t, "auth", QOPAuthentication.Token())
	assert.Equal(t, "auth-int", QOPIntegrity.Token())
	assert.Equal(t, "auth-conf", QOPPrivacy.Token())
}

func TestParseQOP(t *testing.T) {
	tests := []struct {
		input string
		want  QOP
		ok    bool
	}{
		{"authentication", QOPAuthentication, true},
		{"integrity", QOPIntegrity, true},
		{"privacy", QOPPrivacy, true},
		{"  Privacy ", QOPPrivacy, true},
		{"AUTHENTICATION", QOPAuthentication, true},
		{"auth", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := ParseQOP(tt.input)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.want, q)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestSecurityProps(t *testing.T) {
	t.Run("empty list means authentication only", func(t *testing.T) {
		props := SecurityProps()
		assert.Equal(t, map[string]string{PropQOP: "auth"}, props)
	})

	t.Run("preference order is preserved", func(t *testing.T) {
		props := SecurityProps(QOPPrivacy, QOPIntegrity, QOPAuthentication)
		assert.Equal(t, "auth-conf,auth-int,auth", props[PropQOP])
		assert.Len(t, strings.Split(props[PropQOP], ","), 3)
	})
}
