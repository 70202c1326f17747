package probe

// builtin port to service-name table covering the default scan list.
// The platform services database is not portable so the mapping is
// carried in-process and injectable via NewTCPProber
var serviceNames = map[uint16]string{
	21:   "ftp",
	22:   "ssh",
	23:   "telnet",
	25:   "smtp",
	53:   "domain",
	80:   "http",
	88:   "kerberos",
	110:  "pop3",
	123:  "ntp",
	137:  "netbios-ns",
	138:  "netbios-dgm",
	139:  "netbios-ssn",
	143:  "imap",
	389:  "ldap",
	443:  "https",
	445:  "microsoft-ds",
	464:  "kpasswd",
	587:  "submission",
	636:  "ldaps",
	993:  "imaps",
	995:  "pop3s",
	1433: "ms-sql-s",
	1521: "oracle",
	3306: "mysql",
	3389: "ms-wbt-server",
	5060: "sip",
	5061: "sips",
	8080: "http-proxy",
}

// ServiceNames returns a copy of the built-in port to service-name
// mapping
func ServiceNames() map[uint16]string {
	services := make(map[uint16]string, len(serviceNames))

	for port, name := range serviceNames {
		services[port] = name
	}

	return services
}
