package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/AsesorVial/mi-asesor-vial-backend/internal/article"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/config"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/platform/database"
	"github.com/AsesorVial/mi-asesor-vial-backend/internal/user"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedArticles 是产品上线时的初始文章，快照列即初始基线。
var seedArticles = []article.Article{
	{
		Slug:             "entendiendo-limites-velocidad",
		Title:            "Entendiendo los Límites de Velocidad y sus Consecuencias",
		ShortDescription: "Conoce los diferentes límites de velocidad y las posibles multas por excederlos.",
		Category:         "Reglamentos e Infracciones",
		ImageURL:         "https://picsum.photos/seed/speeding/600/400",
		ImageHint:        "carretera velocidad",
		Introduction:     "Los límites de velocidad son cruciales para la seguridad vial. Entenderlos ayuda a prevenir accidentes y multas. Este artículo explora los tipos de límites de velocidad y las consecuencias de las infracciones.",
		Points: []string{
			"Límites de velocidad en zona urbana vs. carretera.",
			"Factores que afectan los cambios de límite de velocidad (zonas escolares, construcción).",
			"Multas y puntos en la licencia por exceso de velocidad.",
			"Impacto del exceso de velocidad en la gravedad de los accidentes.",
		},
		Conclusion:    "Respetar los límites de velocidad es una responsabilidad que cada conductor comparte para garantizar vialidades más seguras para todos.",
		ReadMoreLink:  "#",
		FavoriteCount: 120,
		Status:        article.StatusPublished,
	},
	{
		Slug:             "importancia-semaforos",
		Title:            "La Importancia de las Señales del Semáforo",
		ShortDescription: "Descubre por qué los semáforos son esenciales para un flujo vehicular ordenado y para prevenir choques.",
		Category:         "Seguridad Vial",
		ImageURL:         "https://picsum.photos/seed/trafficlight/600/400",
		ImageHint:        "semaforo calle",
		Introduction:     "Los semáforos son fundamentales para administrar los cruces y los pasos de peatones. Este artículo explica su importancia y cómo interpretar correctamente las señales.",
		Points: []string{
			"Significado de las luces roja, amarilla y verde.",
			"Derecho de paso en cruces con semáforos.",
			"Consecuencias de pasarse un semáforo en rojo.",
			"Señales peatonales y seguridad.",
		},
		Conclusion:    "Respetar las señales de tránsito es fundamental para mantener el orden y la seguridad en nuestras vialidades.",
		ReadMoreLink:  "#",
		FavoriteCount: 95,
		Status:        article.StatusPublished,
	},
	{
		Slug:             "practicas-estacionamiento-seguro",
		Title:            "Prácticas de Estacionamiento Seguro para Evitar Multas",
		ShortDescription: "Domina las reglas de estacionamiento seguro y legal para evitar infracciones y garantizar la accesibilidad.",
		Category:         "Obligaciones",
		ImageURL:         "https://picsum.photos/seed/parking/600/400",
		ImageHint:        "auto estacionado",
		Introduction:     "Estacionarse correctamente es tan importante como manejar de forma segura. Esta guía cubre regulaciones comunes de estacionamiento y consejos para evitar multas.",
		Points: []string{
			"Entender las zonas de no estacionarse y las señales.",
			"Técnicas y reglas para estacionarse en paralelo.",
			"Estacionamiento en pendientes y cerca de hidrantes.",
			"Reglamento de estacionamiento para personas con discapacidad y etiqueta.",
		},
		Conclusion:    "El estacionamiento adecuado contribuye al flujo vehicular y la seguridad pública. Siempre pon atención a las señales de estacionamiento y las ordenanzas locales.",
		ReadMoreLink:  "#",
		FavoriteCount: 78,
		Status:        article.StatusPublished,
	},
	{
		Slug:             "riesgos-manejar-influencia",
		Title:            "Riesgos de Manejar Bajo la Influencia (DUI)",
		ShortDescription: "Comprende los graves peligros y las repercusiones legales de manejar bajo la influencia del alcohol o drogas.",
		Category:         "Infracciones Graves",
		ImageURL:         "https://picsum.photos/seed/dui/600/400",
		ImageHint:        "peligro volante",
		Introduction:     "Manejar bajo la influencia (DUI, por sus siglas en inglés) es una falta grave con consecuencias que pueden cambiar la vida. Este artículo detalla los riesgos implicados para ti y para los demás.",
		Points: []string{
			"Cómo el alcohol y las drogas afectan la habilidad para manejar.",
			"Límites legales de concentración de alcohol en la sangre (BAC).",
			"Sanciones por DUI: multas, suspensión de licencia, tiempo en cárcel.",
			"Impacto a largo plazo de una condena por DUI.",
			"Alternativas a manejar en estado inconveniente.",
		},
		Conclusion:    "Nunca manejes bajo la influencia. Planea con anticipación un transporte seguro a casa para proteger vidas.",
		ReadMoreLink:  "#",
		FavoriteCount: 150,
		Status:        article.StatusPublished,
	},
	{
		Slug:             "articulo-borrador-ejemplo",
		Title:            "Ejemplo de Artículo en Borrador (Solo Admin)",
		ShortDescription: "Este es un artículo de ejemplo que está en estado de borrador y solo debería ser visible para administradores.",
		Category:         "Consejos Generales",
		ImageURL:         "https://picsum.photos/seed/draft/600/400",
		ImageHint:        "documento borrador",
		Introduction:     "Este artículo sirve como demostración de cómo se verían los artículos en borrador en la sección de administración.",
		Points: []string{
			"Los borradores no son visibles para usuarios regulares.",
			"Los administradores pueden editarlos y publicarlos.",
			"Este es un punto de prueba.",
		},
		Conclusion:    "Próximamente más contenido aquí.",
		ReadMoreLink:  "#",
		FavoriteCount: 5,
		Status:        article.StatusDraft,
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	database.InitDB(cfg.Database)

	if err := article.PrimeDB(); err != nil {
		panic(fmt.Sprintf("迁移article表失败: %v", err))
	}
	if err := user.PrimeDB(); err != nil {
		panic(fmt.Sprintf("迁移user表失败: %v", err))
	}

	if err := seedInitialArticles(); err != nil {
		panic(fmt.Sprintf("写入初始文章失败: %v", err))
	}
	if err := seedAdminUser(); err != nil {
		panic(fmt.Sprintf("写入管理员账号失败: %v", err))
	}

	fmt.Println("种子数据写入完成。")
}

// seedInitialArticles 按slug幂等写入初始文章，已存在的跳过。
func seedInitialArticles() error {
	for _, a := range seedArticles {
		var existing article.Article
		err := database.DB.Where("slug = ?", a.Slug).First(&existing).Error
		if err == nil {
			fmt.Printf("文章已存在，跳过: %s\n", a.Slug)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		a.ID = uuid.Must(uuid.NewV7()).String()
		if err := database.DB.Create(&a).Error; err != nil {
			return err
		}
		fmt.Printf("已写入文章: %s\n", a.Slug)
	}
	return nil
}

// seedAdminUser 创建初始管理员。密码来自环境变量，缺省时只提示不创建。
func seedAdminUser() error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Println("未设置 SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD，跳过管理员创建。")
		return nil
	}

	var existing user.User
	err := database.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		fmt.Println("管理员已存在，跳过。")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{
		UUID:         uuid.Must(uuid.NewV7()).String(),
		Username:     "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		return err
	}
	fmt.Printf("已创建管理员: %s\n", email)
	return nil
}
