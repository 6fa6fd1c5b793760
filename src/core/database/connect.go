package database

import (
	"fmt"
	"log"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

func ConnectDB() {
	host := config.Config("DB_HOST")
	port := config.Config("DB_PORT")
	user := config.Config("DB_USER")
	password := config.Config("DB_PASSWORD")
	dbname := config.Config("DB_NAME")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbname)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: false,

		// Unique-constraint violations must surface as gorm.ErrDuplicatedKey;
		// the reaction upsert and the connection/registration duplicate checks
		// rely on the constraint, not on check-then-act reads.
		TranslateError: true,

		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   "",
			SingularTable: false,
		},
	})
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Error migrating the database: %v", err)
	}

	fmt.Println("Database successfully connected!")
}
