package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"news_admin/internal/client"
	"news_admin/internal/content"
	"news_admin/internal/editor"
	"news_admin/internal/logger"
	"news_admin/internal/media"
	"news_admin/internal/models"

	"github.com/joho/godotenv"
)

// admin_tool — консольная замена браузерной админ-панели: загружает документ
// новостей, правит рабочую копию и отправляет её на сервис сохранения.
func main() {
	logger.Init()
	_ = godotenv.Load()

	var (
		serverURL  = flag.String("server", "http://localhost:8080", "base URL of the newsadmin service")
		hash       = flag.String("hash", os.Getenv("NEWS_ADMIN_PASSWORD_HASH"), "hex SHA-256 of the admin password")
		list       = flag.Bool("list", false, "print articles sorted by date descending")
		exportFile = flag.String("export", "", "write the canonical document to FILE")
		importFile = flag.String("import", "", "replace the working copy with the document from FILE")
		push       = flag.Bool("push", false, "save the working copy to the server")
		addFlag    = flag.Bool("add", false, "add a new article (requires -date, -category, -title)")
		date       = flag.String("date", "", "article date, YYYY-MM-DD")
		category   = flag.String("category", "", "article category")
		title      = flag.String("title", "", "article title")
		articleTxt = flag.String("content", "", "article content (plain text or HTML)")
		deleteID   = flag.String("delete", "", "delete the article with this id")
		videoURL   = flag.String("embed-video", "", "print the embeddable URL for a YouTube/Vimeo link")
		imagePath  = flag.String("embed-image", "", "print a compressed data URI for an image file")
		yes        = flag.Bool("yes", false, "confirm oversized image compression without asking")
	)
	flag.Parse()

	log := logger.WithComponent("admin_tool")

	// Преобразования, не требующие документа.
	if *videoURL != "" {
		embed, err := content.EmbedURL(*videoURL)
		if err != nil {
			log.Fatalf("Video URL rejected: %v", err)
		}
		fmt.Println(embed)
		return
	}
	if *imagePath != "" {
		uri, err := media.CompressFile(*imagePath, func(size int64) bool {
			if !*yes {
				log.Warnf("Image is %d bytes (over %d); pass -yes to compress anyway", size, media.ConfirmThreshold)
			}
			return *yes
		})
		if err != nil {
			log.Fatalf("Image rejected: %v", err)
		}
		fmt.Println(uri)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(*serverURL, *hash)
	session := editor.NewSession()

	// Рабочая копия: из файла импорта или с сервера. Ошибка загрузки с
	// сервера — не приговор, начинаем с пустого списка, как админ-панель.
	if *importFile != "" {
		data, err := os.ReadFile(*importFile)
		if err != nil {
			log.Fatalf("Import read error: %v", err)
		}
		n, err := session.ImportDocument(data)
		if err != nil {
			log.Fatalf("Import rejected: %v", err)
		}
		log.Infof("Imported %d articles from %s", n, *importFile)
	} else {
		doc, err := c.Load(ctx)
		if err != nil {
			log.Warnf("Load from server failed, starting empty: %v", err)
			doc = models.Document{News: []models.Article{}}
		}
		session.Load(doc)
		log.Infof("Loaded %d articles", session.Len())
	}

	if *addFlag {
		a, err := session.Upsert(models.Article{
			Date:     *date,
			Category: *category,
			Title:    *title,
			Content:  *articleTxt,
		})
		if err != nil {
			log.Fatalf("Article rejected: %v", err)
		}
		log.Infof("Article %s staged", a.ID)
	}

	if *deleteID != "" {
		session.StageDelete(*deleteID)
		session.ConfirmDelete()
		log.Infof("Article %s deleted from working copy", *deleteID)
	}

	if *exportFile != "" {
		data, err := session.ExportDocument()
		if err != nil {
			log.Fatalf("Export error: %v", err)
		}
		if err := os.WriteFile(*exportFile, data, 0o644); err != nil {
			log.Fatalf("Export write error: %v", err)
		}
		log.Infof("Exported %d articles to %s", session.Len(), *exportFile)
	}

	if *list {
		for _, a := range session.List(true) {
			fmt.Printf("%s  %s  %-12s  %s\n", a.ID, content.FormatDate(a.Date), a.Category, a.Title)
		}
	}

	if *push {
		n, err := c.Save(ctx, session.Document())
		if err != nil {
			log.Fatalf("Save to server failed, use -export and retry: %v", err)
		}
		log.Infof("Saved to server (%d bytes)", n)
	}
}
