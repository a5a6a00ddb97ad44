// Package mariadb opens MySQL and MariaDB targets for the database package.
//
// URLs of the form mysql://host:3306/db are accepted next to plain
// go-sql-driver DSNs. Time parsing is always switched on.
package mariadb
