package types

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// URI 结构化定位符
//
// 形如 scheme://[userinfo@]host[:port]/path?query#fragment。
// 没有 authority 的定位符（如 "test:id/7" 或 "test:///id/7"）
// 仍然合法，但无法派生节点标识。
type URI struct {
	Scheme   string
	UserInfo string
	Host     string
	Port     uint16
	Path     string // 不含前导 "/"
	Query    string
	Fragment string
}

// ParseURI 解析定位符字符串
func ParseURI(s string) (URI, error) {
	if s == "" {
		return URI{}, ErrEmptyURI
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return URI{}, fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if parsed.Scheme == "" {
		return URI{}, fmt.Errorf("%w: missing scheme in %q", ErrInvalidURI, s)
	}

	u := URI{
		Scheme:   strings.ToLower(parsed.Scheme),
		Host:     parsed.Hostname(),
		Query:    parsed.RawQuery,
		Fragment: parsed.Fragment,
	}
	if parsed.User != nil {
		u.UserInfo = parsed.User.String()
	}
	if p := parsed.Port(); p != "" {
		port, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return URI{}, fmt.Errorf("%w: bad port %q", ErrInvalidURI, p)
		}
		u.Port = uint16(port)
	}
	if parsed.Opaque != "" {
		u.Path = parsed.Opaque
	} else {
		u.Path = strings.TrimPrefix(parsed.Path, "/")
	}
	return u, nil
}

// MustParseURI 解析定位符，失败时 panic（仅用于常量和测试）
func MustParseURI(s string) URI {
	u, err := ParseURI(s)
	if err != nil {
		panic(err)
	}
	return u
}

// HasAuthority 是否包含 authority 部分
func (u URI) HasAuthority() bool {
	return u.Host != ""
}

// Authority 返回 [userinfo@]host[:port]
func (u URI) Authority() string {
	if !u.HasAuthority() {
		return ""
	}
	var b strings.Builder
	if u.UserInfo != "" {
		b.WriteString(u.UserInfo)
		b.WriteByte('@')
	}
	host := u.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if u.Port != 0 {
		b.WriteString(net.JoinHostPort(u.Host, strconv.Itoa(int(u.Port))))
	} else {
		b.WriteString(host)
	}
	return b.String()
}

// AuthorityOnly 返回只保留 scheme 和 authority 的定位符
//
// 没有 authority 时第二个返回值为 false。
func (u URI) AuthorityOnly() (URI, bool) {
	if !u.HasAuthority() {
		return URI{}, false
	}
	return URI{
		Scheme:   u.Scheme,
		UserInfo: u.UserInfo,
		Host:     u.Host,
		Port:     u.Port,
	}, true
}

// IsEmpty 是否为零值
func (u URI) IsEmpty() bool {
	return u == URI{}
}

// String 返回规范字符串形式
func (u URI) String() string {
	if u.IsEmpty() {
		return ""
	}
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteByte(':')
	if u.HasAuthority() {
		b.WriteString("//")
		b.WriteString(u.Authority())
		if u.Path != "" {
			b.WriteByte('/')
			b.WriteString(u.Path)
		}
	} else {
		b.WriteString(u.Path)
	}
	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}
